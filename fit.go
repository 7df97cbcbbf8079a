package ps

import "math"

// Fit is the transformation placing a page of one size centred on a page
// of another size: translate by (ShiftX, ShiftY), rotate by Rotate degrees
// then scale by Scale.
type Fit struct {
	Scale  float64
	ShiftX float64
	ShiftY float64
	Rotate int
}

func (f Fit) IsIdentity() bool {
	return f.Scale == 1 && f.ShiftX == 0 && f.ShiftY == 0 && f.Rotate == 0
}

// FitPage scales a page of size in to fill a page of size out as much as
// possible. The page is turned by 90 degrees when it leaves less unused
// space that way, the unused space being the sum of the squared margins.
func FitPage(in, out Size) Fit {
	if !in.IsSet() || !out.IsSet() {
		return Fit{Scale: 1}
	}
	var (
		scale = math.Min(out.Width/in.Width, out.Height/in.Height)
		waste = square(out.Width-scale*in.Width) + square(out.Height-scale*in.Height)

		rscale = math.Min(out.Height/in.Width, out.Width/in.Height)
		rwaste = square(out.Height-rscale*in.Width) + square(out.Width-rscale*in.Height)
	)
	if rwaste < waste {
		return Fit{
			Scale:  rscale,
			ShiftX: (out.Width + in.Height*rscale) / 2,
			ShiftY: (out.Height - in.Width*rscale) / 2,
			Rotate: 90,
		}
	}
	return Fit{
		Scale:  scale,
		ShiftX: (out.Width - in.Width*scale) / 2,
		ShiftY: (out.Height - in.Height*scale) / 2,
	}
}

func square(f float64) float64 {
	return f * f
}
