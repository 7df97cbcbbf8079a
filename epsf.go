package ps

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// BoundingBox is the rectangle of a %%BoundingBox: comment, in points.
type BoundingBox struct {
	LLX float64
	LLY float64
	URX float64
	URY float64
}

// ParseBoundingBox reads the four coordinates of a %%BoundingBox: value.
func ParseBoundingBox(value string) (BoundingBox, error) {
	fields := strings.Fields(value)
	if len(fields) != 4 {
		return BoundingBox{}, fmt.Errorf("%q: %w", value, ErrBoundingBox)
	}
	var list [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return BoundingBox{}, fmt.Errorf("%q: %w", value, ErrBoundingBox)
		}
		list[i] = n
	}
	return BoundingBox{LLX: list[0], LLY: list[1], URX: list[2], URY: list[3]}, nil
}

func (b BoundingBox) IsZero() bool {
	return b == BoundingBox{}
}

func (b BoundingBox) Width() float64 {
	return b.URX - b.LLX
}

func (b BoundingBox) Height() float64 {
	return b.URY - b.LLY
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("%d %d %d %d", int(b.LLX), int(b.LLY), int(b.URX), int(b.URY))
}

// EPSFit describes the box an encapsulated picture is fitted into.
type EPSFit struct {
	Box BoundingBox
	// Center centres the picture in Box.
	Center bool
	// Rotate turns the picture 90 degrees counter-clockwise. Maximize
	// does it only when the picture then fills more of Box.
	Rotate   bool
	Maximize bool
	// Aspect scales width and height separately to fill Box.
	Aspect bool
	// ShowPage disables the page operators of the picture and appends a
	// showpage so the result prints on its own.
	ShowPage bool
}

// Placement is where a picture lands once fitted.
type Placement struct {
	XScale float64
	YScale float64
	XOff   float64
	YOff   float64
	Rotate bool
	// Box is the bounding box of the placed picture.
	Box BoundingBox
}

// Place computes the transformation that fits a picture of bounding box
// src into f.Box.
func (f EPSFit) Place(src BoundingBox) (Placement, error) {
	var (
		llx     = math.Trunc(src.LLX)
		lly     = math.Trunc(src.LLY)
		width   = math.Floor(src.URX+0.5) - llx
		height  = math.Floor(src.URY+0.5) - lly
		fwidth  = f.Box.Width()
		fheight = f.Box.Height()
	)
	if width <= 0 || height <= 0 {
		return Placement{}, fmt.Errorf("empty picture %s: %w", src, ErrBoundingBox)
	}
	if fwidth <= 0 || fheight <= 0 {
		return Placement{}, fmt.Errorf("empty box %s: %w", f.Box, ErrConfig)
	}
	pl := Placement{
		XOff:   f.Box.LLX,
		YOff:   f.Box.LLY,
		Rotate: f.Rotate,
	}
	if f.Maximize && ((width > height && fheight > fwidth) || (width < height && fheight < fwidth)) {
		pl.Rotate = true
	}
	if pl.Rotate {
		fwidth, fheight = fheight, fwidth
	}
	pl.XScale, pl.YScale = fwidth/width, fheight/height
	if !f.Aspect {
		pl.XScale = math.Min(pl.XScale, pl.YScale)
		pl.YScale = pl.XScale
	}
	width *= pl.XScale
	height *= pl.YScale
	if f.Center {
		if pl.Rotate {
			pl.XOff += (fheight - height) / 2
			pl.YOff += (fwidth - width) / 2
		} else {
			pl.XOff += (fwidth - width) / 2
			pl.YOff += (fheight - height) / 2
		}
	}
	w, h := width, height
	if pl.Rotate {
		w, h = height, width
	}
	pl.Box = BoundingBox{LLX: pl.XOff, LLY: pl.YOff, URX: pl.XOff + w, URY: pl.YOff + h}

	if pl.Rotate {
		pl.XOff += height + lly*pl.YScale
		pl.YOff -= llx * pl.XScale
	} else {
		pl.XOff -= llx * pl.XScale
		pl.YOff -= lly * pl.YScale
	}
	return pl, nil
}

// FitEPS writes doc to w scaled and moved into the box of f. The header
// keeps its comments but gets the new bounding box.
func FitEPS(w io.Writer, doc *Document, f EPSFit) error {
	if doc.BoundingBox.IsZero() {
		return fmt.Errorf("no %%%%BoundingBox: in header: %w", ErrBoundingBox)
	}
	pl, err := f.Place(doc.BoundingBox)
	if err != nil {
		return err
	}
	ignore := make([]int64, 0, len(doc.SizeHeaders)+1)
	ignore = append(ignore, doc.SizeHeaders...)
	if doc.EndComments >= 0 {
		ignore = append(ignore, doc.EndComments)
	}
	out := NewSplicer(w, doc.Reader(), ignore)
	if err := out.Seek(0); err != nil {
		return err
	}
	if err := out.CopyHeader(doc.HeaderEnd); err != nil {
		return err
	}
	out.Printf("%%%%BoundingBox: %s", pl.Box)
	out.Println("%%EndComments")
	if f.ShowPage {
		out.Println("save /showpage{}def /copypage{}def /erasepage{}def")
	} else {
		out.Println("%%BeginProcSet: epsffit 1 0")
	}
	out.Printf("gsave %.3f %.3f translate", pl.XOff, pl.YOff)
	if pl.Rotate {
		out.Println("90 rotate")
	}
	out.Printf("%.3f %.3f scale", pl.XScale, pl.YScale)
	if !f.ShowPage {
		out.Println("%%EndProcSet")
	}
	if err := out.CopyAll(); err != nil {
		return err
	}
	out.Println("grestore")
	if f.ShowPage {
		out.Println("restore showpage")
	}
	return out.Flush()
}
