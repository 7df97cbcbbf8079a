package ps

import (
	"fmt"
	"math"
)

// DefaultTolerance is the largest waste, in square points, accepted for an
// N-up layout.
const DefaultTolerance = 100000

type NupOptions struct {
	// N is the number of pages per output sheet.
	N int
	// Paper is the output paper. InPaper is the size of the input pages;
	// when unset, the input pages are assumed to be of the output size.
	Paper   Size
	InPaper Size
	// Margin is kept free around the whole sheet, Border around each page.
	Margin float64
	Border float64

	Tolerance float64
	// Scale replaces the computed scale when positive.
	Scale float64

	Flip         bool
	Column       bool
	RotatedLeft  bool
	RotatedRight bool
}

// Nup finds the arrangement of N pages on one sheet that wastes the least
// paper and returns it as a layout. The returned size is the size of the
// input pages as they must be clipped once placed.
func Nup(opts NupOptions) (Layout, Size, error) {
	if opts.N < 1 {
		return Layout{}, Unset, fmt.Errorf("%d-up: %w", opts.N, ErrConfig)
	}
	if !opts.Paper.IsSet() {
		return Layout{}, Unset, fmt.Errorf("output %w", ErrDimensionContext)
	}
	var (
		ppwid = opts.Paper.Width - 2*opts.Margin
		pphgt = opts.Paper.Height - 2*opts.Margin
	)
	if ppwid <= 0 || pphgt <= 0 {
		return Layout{}, Unset, fmt.Errorf("paper margins are too large: %w", ErrConfig)
	}
	if opts.Border*2 >= math.Min(ppwid, pphgt) {
		return Layout{}, Unset, fmt.Errorf("page borders are too large: %w", ErrConfig)
	}
	in := opts.InPaper
	if !in.IsSet() {
		in = opts.Paper
	}
	tolerance := opts.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	var (
		best                 = tolerance
		found                bool
		scale, hshift, vshift float64
		horiz, vert          int
		rotate               bool
	)
	for hor := 1; hor > 0; hor = nextDivisor(hor, opts.N) {
		ver := opts.N / hor

		scl := math.Min(pphgt/(in.Height*float64(ver)), ppwid/(in.Width*float64(hor)))
		waste := square(ppwid-scl*in.Width*float64(hor)) + square(pphgt-scl*in.Height*float64(ver))
		if waste < best {
			best, found = waste, true
			scale = math.Min((pphgt-2*opts.Border*float64(ver))/(in.Height*float64(ver)),
				(ppwid-2*opts.Border*float64(hor))/(in.Width*float64(hor)))
			hshift = (ppwid/float64(hor) - in.Width*scale) / 2
			vshift = (pphgt/float64(ver) - in.Height*scale) / 2
			horiz, vert = hor, ver
			rotate = opts.Flip
		}

		scl = math.Min(pphgt/(in.Width*float64(hor)), ppwid/(in.Height*float64(ver)))
		waste = square(pphgt-scl*in.Width*float64(hor)) + square(ppwid-scl*in.Height*float64(ver))
		if waste < best {
			best, found = waste, true
			scale = math.Min((pphgt-2*opts.Border*float64(hor))/(in.Width*float64(hor)),
				(ppwid-2*opts.Border*float64(ver))/(in.Height*float64(ver)))
			hshift = (ppwid/float64(ver) - in.Height*scale) / 2
			vshift = (pphgt/float64(hor) - in.Width*scale) / 2
			horiz, vert = ver, hor
			rotate = !opts.Flip
		}
	}
	if !found {
		return Layout{}, Unset, fmt.Errorf("%d-up: %w", opts.N, ErrNoLayout)
	}
	if opts.Flip {
		in = in.Swap()
	}

	var (
		column    = opts.Column
		leftright = true
		topbottom = true
	)
	if opts.RotatedLeft {
		column, topbottom = !column, !topbottom
	}
	if opts.RotatedRight {
		column, leftright = !column, !leftright
	}
	if rotate {
		topbottom, leftright = !leftright, topbottom
		column = !column
	}
	if opts.Scale > 0 {
		scale = opts.Scale
	}

	layout := Layout{
		Modulo:        opts.N,
		PagesPerSheet: 1,
	}
	for page := 0; page < opts.N; page++ {
		across, up := gridCell(page, horiz, vert, column, leftright, topbottom)

		spec := NewPageSpec(page)
		if rotate {
			spec.XOff = opts.Margin + float64(across+1)*ppwid/float64(horiz) - hshift
			spec.Rotate = 90
			spec.Flags |= FlagRotate
		} else {
			spec.XOff = opts.Margin + float64(across)*ppwid/float64(horiz) + hshift
		}
		spec.YOff = opts.Margin + float64(up)*pphgt/float64(vert) + vshift
		spec.Scale = scale
		spec.Flags |= FlagScale | FlagOffset
		if page < opts.N-1 {
			spec.Flags |= FlagAddNext
		}
		layout.Specs = append(layout.Specs, spec)
	}
	return layout, in, nil
}

// gridCell returns the column and the row, counted from the bottom left
// corner, of the page-th cell of a grid of horiz by vert cells.
func gridCell(page, horiz, vert int, column, leftright, topbottom bool) (int, int) {
	across, up := page%horiz, page/horiz
	if column {
		across, up = page/vert, page%vert
	}
	if !leftright {
		across = horiz - 1 - across
	}
	if topbottom {
		up = vert - 1 - up
	}
	return across, up
}

// nextDivisor returns the smallest divisor of m greater than n, 0 when
// there is none.
func nextDivisor(n, m int) int {
	for n++; n <= m; n++ {
		if m%n == 0 {
			return n
		}
	}
	return 0
}
