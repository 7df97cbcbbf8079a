package ps

import "strconv"

// PaperFlag is a command line flag holding a paper size, given either by
// name or as WIDTHxHEIGHT.
type PaperFlag struct {
	Size Size
}

func (p *PaperFlag) Set(str string) error {
	s, err := ParsePaper(str)
	if err != nil {
		return err
	}
	p.Size = s
	return nil
}

func (p *PaperFlag) String() string {
	if p == nil || !p.Size.IsSet() {
		return ""
	}
	return formatFloat(p.Size.Width) + "x" + formatFloat(p.Size.Height)
}

func (p *PaperFlag) IsSet() bool {
	return p.Size.IsSet()
}

// DimensionFlag is a command line flag holding a length. Lengths relative
// to the paper are only resolved once every flag is known.
type DimensionFlag struct {
	text string
}

func (d *DimensionFlag) Set(str string) error {
	if _, err := ParseDimension(str, Size{Width: 1, Height: 1}); err != nil {
		return err
	}
	d.text = str
	return nil
}

func (d *DimensionFlag) String() string {
	if d == nil {
		return ""
	}
	return d.text
}

func (d *DimensionFlag) IsSet() bool {
	return d.text != ""
}

// Resolve returns the length in points, or def when the flag was not
// given.
func (d *DimensionFlag) Resolve(paper Size, def float64) (float64, error) {
	if !d.IsSet() {
		return def, nil
	}
	return ParseDimension(d.text, paper)
}

// ResolveSize combines a paper flag with separate width and height flags:
// the paper gives both sides, the width and height flags replace one.
// base is used for the sides not given at all.
func ResolveSize(paper *PaperFlag, width, height *DimensionFlag, base Size) (Size, error) {
	size := base
	if paper.IsSet() {
		size = paper.Size
	}
	w, err := width.Resolve(size, size.Width)
	if err != nil {
		return Unset, err
	}
	h, err := height.Resolve(size, size.Height)
	if err != nil {
		return Unset, err
	}
	return Size{Width: w, Height: h}, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
