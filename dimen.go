package ps

import (
	"strconv"
)

const (
	PointsPerInch = 72.0
	PointsPerCm   = 28.346456692913385
	PointsPerMm   = 2.8346456692913385
)

// Size is a paper size in points. A negative side means the side is unset.
type Size struct {
	Width  float64
	Height float64
}

// Unset is the paper size of a document whose size nobody declared.
var Unset = Size{Width: -1, Height: -1}

func (s Size) IsSet() bool {
	return s.Width > 0 && s.Height > 0
}

func (s Size) Swap() Size {
	return Size{Width: s.Height, Height: s.Width}
}

// ParseDimension parses a length such as "10", "12pt", "2.5in", "21cm",
// "297mm", ".5w" or "1h". The w and h suffixes are fractions of the
// width and height of paper.
func ParseDimension(str string, paper Size) (float64, error) {
	c := cursor{str: str}
	n, err := c.dimension(paper)
	if err != nil {
		return 0, err
	}
	if !c.done() {
		return 0, parseError(str, c.pos, ErrDimension)
	}
	return n, nil
}

// cursor walks over an immutable string. Parsers built on it never back
// up more than the token they are looking at.
type cursor struct {
	str string
	pos int
}

func (c *cursor) done() bool {
	return c.pos >= len(c.str)
}

func (c *cursor) peek() byte {
	if c.done() {
		return 0
	}
	return c.str[c.pos]
}

func (c *cursor) next() byte {
	b := c.peek()
	if !c.done() {
		c.pos++
	}
	return b
}

func (c *cursor) accept(b byte) bool {
	if c.done() || c.str[c.pos] != b {
		return false
	}
	c.pos++
	return true
}

func (c *cursor) hasPrefix(prefix string) bool {
	return len(c.str)-c.pos >= len(prefix) && c.str[c.pos:c.pos+len(prefix)] == prefix
}

func (c *cursor) integer() (int, bool) {
	start := c.pos
	for isDigit(c.peek()) {
		c.pos++
	}
	if start == c.pos {
		return 0, false
	}
	n, err := strconv.Atoi(c.str[start:c.pos])
	if err != nil {
		c.pos = start
		return 0, false
	}
	return n, true
}

// number reads a decimal number with the syntax accepted by strtod: an
// optional sign, a mantissa with at least one digit and an optional
// exponent.
func (c *cursor) number() (float64, error) {
	start := c.pos
	if b := c.peek(); b == '+' || b == '-' {
		c.pos++
	}
	digits := c.skipDigits()
	if c.accept('.') {
		digits += c.skipDigits()
	}
	if digits == 0 {
		c.pos = start
		return 0, parseError(c.str, start, ErrDimension)
	}
	if b := c.peek(); b == 'e' || b == 'E' {
		mark := c.pos
		c.pos++
		if b := c.peek(); b == '+' || b == '-' {
			c.pos++
		}
		if c.skipDigits() == 0 {
			c.pos = mark
		}
	}
	n, err := strconv.ParseFloat(c.str[start:c.pos], 64)
	if err != nil {
		c.pos = start
		return 0, parseError(c.str, start, ErrDimension)
	}
	return n, nil
}

func (c *cursor) skipDigits() int {
	var n int
	for isDigit(c.peek()) {
		c.pos++
		n++
	}
	return n
}

func (c *cursor) dimension(paper Size) (float64, error) {
	n, err := c.number()
	if err != nil {
		return 0, err
	}
	switch {
	case c.hasPrefix("pt"):
		c.pos += 2
	case c.hasPrefix("in"):
		c.pos += 2
		n *= PointsPerInch
	case c.hasPrefix("cm"):
		c.pos += 2
		n *= PointsPerCm
	case c.hasPrefix("mm"):
		c.pos += 2
		n *= PointsPerMm
	case c.hasPrefix("w"):
		if paper.Width < 0 {
			return 0, parseError(c.str, c.pos, ErrDimensionContext)
		}
		c.pos++
		n *= paper.Width
	case c.hasPrefix("h"):
		if paper.Height < 0 {
			return 0, parseError(c.str, c.pos, ErrDimensionContext)
		}
		c.pos++
		n *= paper.Height
	}
	return n, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
