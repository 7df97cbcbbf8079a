package ps

import (
	"fmt"
	"os"
	"strings"
)

type Paper struct {
	Name string
	Size
}

// Sizes in points, as given by libpaper.
var papers = []Paper{
	{Name: "a0", Size: Size{Width: 2384, Height: 3370}},
	{Name: "a1", Size: Size{Width: 1684, Height: 2384}},
	{Name: "a2", Size: Size{Width: 1191, Height: 1684}},
	{Name: "a3", Size: Size{Width: 842, Height: 1191}},
	{Name: "a4", Size: Size{Width: 595, Height: 842}},
	{Name: "a4small", Size: Size{Width: 595, Height: 842}},
	{Name: "a5", Size: Size{Width: 420, Height: 595}},
	{Name: "a6", Size: Size{Width: 298, Height: 420}},
	{Name: "a7", Size: Size{Width: 210, Height: 298}},
	{Name: "a8", Size: Size{Width: 147, Height: 210}},
	{Name: "a9", Size: Size{Width: 105, Height: 147}},
	{Name: "a10", Size: Size{Width: 74, Height: 105}},
	{Name: "b0", Size: Size{Width: 2835, Height: 4008}},
	{Name: "b1", Size: Size{Width: 2004, Height: 2835}},
	{Name: "b2", Size: Size{Width: 1417, Height: 2004}},
	{Name: "b3", Size: Size{Width: 1001, Height: 1417}},
	{Name: "b4", Size: Size{Width: 709, Height: 1001}},
	{Name: "b5", Size: Size{Width: 499, Height: 709}},
	{Name: "c5", Size: Size{Width: 459, Height: 649}},
	{Name: "dl", Size: Size{Width: 312, Height: 624}},
	{Name: "com10", Size: Size{Width: 297, Height: 684}},
	{Name: "letter", Size: Size{Width: 612, Height: 792}},
	{Name: "lettersmall", Size: Size{Width: 612, Height: 792}},
	{Name: "legal", Size: Size{Width: 612, Height: 1008}},
	{Name: "executive", Size: Size{Width: 540, Height: 720}},
	{Name: "statement", Size: Size{Width: 396, Height: 612}},
	{Name: "halfletter", Size: Size{Width: 396, Height: 612}},
	{Name: "tabloid", Size: Size{Width: 792, Height: 1224}},
	{Name: "ledger", Size: Size{Width: 1224, Height: 792}},
	{Name: "folio", Size: Size{Width: 612, Height: 936}},
	{Name: "quarto", Size: Size{Width: 610, Height: 780}},
	{Name: "note", Size: Size{Width: 540, Height: 720}},
	{Name: "10x14", Size: Size{Width: 720, Height: 1008}},
}

const DefaultPaperName = "a4"

// LookupPaper returns the size of the named paper. Names are case
// insensitive.
func LookupPaper(name string) (Size, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range papers {
		if p.Name == name {
			return p.Size, nil
		}
	}
	return Unset, fmt.Errorf("%s: %w", name, ErrPaper)
}

// ParsePaper accepts a paper name or explicit dimensions written as
// WIDTHxHEIGHT, e.g. "a4", "Letter" or "21cmx29.7cm".
func ParsePaper(str string) (Size, error) {
	if s, err := LookupPaper(str); err == nil {
		return s, nil
	}
	x := strings.LastIndexByte(str, 'x')
	if x <= 0 || x == len(str)-1 {
		return Unset, fmt.Errorf("%s: %w", str, ErrPaper)
	}
	w, err := ParseDimension(str[:x], Unset)
	if err != nil {
		return Unset, fmt.Errorf("%s: %w", str, ErrPaper)
	}
	h, err := ParseDimension(str[x+1:], Unset)
	if err != nil {
		return Unset, fmt.Errorf("%s: %w", str, ErrPaper)
	}
	if w <= 0 || h <= 0 {
		return Unset, fmt.Errorf("%s: %w", str, ErrPaper)
	}
	return Size{Width: w, Height: h}, nil
}

// DefaultPaper returns the paper named by $PAPERSIZE, then by
// /etc/papersize, falling back to A4.
func DefaultPaper() Size {
	name := os.Getenv("PAPERSIZE")
	if name == "" {
		if buf, err := os.ReadFile("/etc/papersize"); err == nil {
			for _, line := range strings.Split(string(buf), "\n") {
				line = strings.TrimSpace(line)
				if line != "" && !strings.HasPrefix(line, "#") {
					name = line
					break
				}
			}
		}
	}
	if s, err := ParsePaper(name); err == nil {
		return s
	}
	s, _ := LookupPaper(DefaultPaperName)
	return s
}
