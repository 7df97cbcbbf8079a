package ps

import (
	"errors"
	"fmt"
	"strings"
)

type Flag uint8

const (
	FlagAddNext Flag = 1 << iota
	FlagRotate
	FlagHFlip
	FlagVFlip
	FlagScale
	FlagOffset
	FlagReversed
)

const transformFlags = FlagRotate | FlagHFlip | FlagVFlip | FlagScale | FlagOffset

func (f Flag) String() string {
	names := []string{"ADD_NEXT", "ROTATE", "HFLIP", "VFLIP", "SCALE", "OFFSET", "REVERSED"}
	var parts []string
	for i, n := range names {
		if f&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "|")
}

// PageSpec places one source page on one output sheet position.
type PageSpec struct {
	Slot   int
	Rotate int
	Scale  float64
	XOff   float64
	YOff   float64
	Flags  Flag
}

func NewPageSpec(slot int) PageSpec {
	return PageSpec{Slot: slot, Scale: 1}
}

func (s PageSpec) Has(f Flag) bool {
	return s.Flags&f != 0
}

func (s PageSpec) Reversed() bool {
	return s.Has(FlagReversed)
}

func (s PageSpec) HasTransform() bool {
	return s.Flags&transformFlags != 0
}

// Layout is a compiled page specification: Specs repeats for every group
// of Modulo pages and produces PagesPerSheet output pages per group.
type Layout struct {
	Specs         []PageSpec
	Modulo        int
	PagesPerSheet int
}

// Identity is the layout that copies every page unchanged.
func Identity() Layout {
	return Layout{
		Specs:         []PageSpec{NewPageSpec(0)},
		Modulo:        1,
		PagesPerSheet: 1,
	}
}

// Positions groups Specs by output sheet position: a run of specs flagged
// FlagAddNext ends with the first spec without the flag.
func (y Layout) Positions() [][]PageSpec {
	var (
		list [][]PageSpec
		curr []PageSpec
	)
	for _, s := range y.Specs {
		curr = append(curr, s)
		if !s.Has(FlagAddNext) {
			list, curr = append(list, curr), nil
		}
	}
	if len(curr) > 0 {
		list = append(list, curr)
	}
	return list
}

// NeedProcSet reports whether imposing with y needs the wrapper procset:
// overlays and transforms do, a plain reordering does not.
func (y Layout) NeedProcSet() bool {
	for _, s := range y.Specs {
		if s.HasTransform() || s.Has(FlagAddNext) {
			return true
		}
	}
	return false
}

// ParseSpecs compiles a page specification:
//
//	specs = [modulo:]spec{(,|+)spec}
//	spec  = [-][pageno]{@scale|L|R|U|H|V|(xoff,yoff)}
//
// Without an explicit modulo, the modulo is one more than the highest page
// number. A spec without page number takes the number following the one
// of the previous spec.
func ParseSpecs(str string, paper Size) (Layout, error) {
	var (
		c         = cursor{str: str}
		lay       Layout
		curr      = NewPageSpec(-1)
		prev      = -1
		explicit  bool
		described bool
	)
	fail := func(pos int) error {
		return parseError(str, pos, ErrPageSpec)
	}
	finish := func(pos int) error {
		if curr.Slot < 0 {
			curr.Slot = prev + 1
		}
		if explicit && curr.Slot >= lay.Modulo {
			return fail(pos)
		}
		if !curr.Has(FlagAddNext) {
			lay.PagesPerSheet++
		}
		lay.Specs = append(lay.Specs, curr)
		prev, curr, described = curr.Slot, NewPageSpec(-1), false
		return nil
	}
	for !c.done() {
		pos := c.pos
		if isDigit(c.peek()) {
			n, ok := c.integer()
			if !ok {
				return lay, fail(pos)
			}
			if c.accept(':') {
				if explicit || described || len(lay.Specs) > 0 || n < 1 {
					return lay, fail(pos)
				}
				lay.Modulo, explicit = n, true
				continue
			}
			if curr.Slot >= 0 {
				return lay, fail(pos)
			}
			curr.Slot, described = n, true
			continue
		}
		switch b := c.next(); b {
		case '-':
			curr.Flags ^= FlagReversed
		case '@':
			n, err := c.number()
			if err != nil {
				return lay, fail(c.pos)
			}
			curr.Scale *= n
			curr.Flags |= FlagScale
		case 'l', 'L':
			curr.Rotate += 90
			curr.Flags |= FlagRotate
		case 'r', 'R':
			curr.Rotate -= 90
			curr.Flags |= FlagRotate
		case 'u', 'U':
			curr.Rotate += 180
			curr.Flags |= FlagRotate
		case 'h', 'H':
			curr.Flags ^= FlagHFlip
		case 'v', 'V':
			curr.Flags ^= FlagVFlip
		case '(':
			x, err := c.dimension(paper)
			if err != nil {
				return lay, specDimensionError(err, fail(c.pos))
			}
			if !c.accept(',') {
				return lay, fail(c.pos)
			}
			y, err := c.dimension(paper)
			if err != nil {
				return lay, specDimensionError(err, fail(c.pos))
			}
			if !c.accept(')') {
				return lay, fail(c.pos)
			}
			curr.XOff += x
			curr.YOff += y
			curr.Flags |= FlagOffset
		case '+', ',':
			if b == '+' {
				curr.Flags |= FlagAddNext
			}
			if err := finish(pos); err != nil {
				return lay, err
			}
			if c.done() {
				return lay, fail(pos)
			}
			continue
		default:
			return lay, fail(pos)
		}
		described = true
	}
	if !described {
		return lay, fail(c.pos)
	}
	if err := finish(c.pos); err != nil {
		return lay, err
	}
	if !explicit {
		for _, s := range lay.Specs {
			if s.Slot >= lay.Modulo {
				lay.Modulo = s.Slot + 1
			}
		}
	}
	return lay, nil
}

// A relative offset without paper is a configuration problem, not a typo.
func specDimensionError(err, fallback error) error {
	if errors.Is(err, ErrDimensionContext) {
		return err
	}
	return fallback
}

// String renders y back in the page specification language.
func (y Layout) String() string {
	var str strings.Builder
	fmt.Fprintf(&str, "%d:", y.Modulo)
	for i, s := range y.Specs {
		if s.Reversed() {
			str.WriteByte('-')
		}
		fmt.Fprintf(&str, "%d", s.Slot)
		if s.Has(FlagRotate) {
			switch r := ((s.Rotate % 360) + 360) % 360; r {
			case 90:
				str.WriteByte('L')
			case 180:
				str.WriteByte('U')
			case 270:
				str.WriteByte('R')
			}
		}
		if s.Has(FlagHFlip) {
			str.WriteByte('H')
		}
		if s.Has(FlagVFlip) {
			str.WriteByte('V')
		}
		if s.Has(FlagScale) {
			fmt.Fprintf(&str, "@%g", s.Scale)
		}
		if s.Has(FlagOffset) {
			fmt.Fprintf(&str, "(%gpt,%gpt)", s.XOff, s.YOff)
		}
		if i < len(y.Specs)-1 {
			if s.Has(FlagAddNext) {
				str.WriteByte('+')
			} else {
				str.WriteByte(',')
			}
		}
	}
	return str.String()
}
