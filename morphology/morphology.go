// Package morphology implements grayscale erosion, dilation, opening, and
// closing with a 3x3 square structuring element (Chebyshev distance <= 1).
package morphology

import (
	"fmt"

	"github.com/wudi/ocrkit/raster"
)

// Op selects a morphological operation.
type Op int

const (
	None Op = iota
	Erode
	Dilate
	Opening // erode then dilate: removes small bright speckles
	Closing // dilate then erode: fills small dark gaps
)

func (o Op) String() string {
	switch o {
	case None:
		return "none"
	case Erode:
		return "erode"
	case Dilate:
		return "dilate"
	case Opening:
		return "opening"
	case Closing:
		return "closing"
	}
	return "none"
}

// ParseOp maps a selector string to an Op. Unrecognized values resolve to
// None so a configuration typo degrades to a no-op instead of failing.
func ParseOp(s string) Op {
	switch s {
	case "erode":
		return Erode
	case "dilate":
		return Dilate
	case "opening":
		return Opening
	case "closing":
		return Closing
	}
	return None
}

// Apply runs the selected operation on the grayscale view of the buffer and
// re-expands the result to RGBA. Op values outside the known set (including
// None) return the input unchanged.
func Apply(b *raster.Buffer, op Op) (*raster.Buffer, error) {
	if op != Erode && op != Dilate && op != Opening && op != Closing {
		return b, nil
	}
	if b.Width() < 3 || b.Height() < 3 {
		return nil, fmt.Errorf("morphology: buffer %dx%d too small (need 3x3)", b.Width(), b.Height())
	}
	gray := b.GrayPlane()
	switch op {
	case Erode:
		gray = erode(gray)
	case Dilate:
		gray = dilate(gray)
	case Opening:
		gray = dilate(erode(gray))
	case Closing:
		gray = erode(dilate(gray))
	}
	return gray.ToBuffer(), nil
}

// erode takes the minimum over each 3x3 neighborhood, clamped at the edges.
func erode(p *raster.Plane) *raster.Plane {
	out := raster.NewPlane(p.W, p.H)
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			min := uint8(255)
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if v := p.AtClamped(x+dx, y+dy); v < min {
						min = v
					}
				}
			}
			out.Set(x, y, min)
		}
	}
	return out
}

// dilate takes the maximum over each 3x3 neighborhood, clamped at the edges.
func dilate(p *raster.Plane) *raster.Plane {
	out := raster.NewPlane(p.W, p.H)
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			max := uint8(0)
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if v := p.AtClamped(x+dx, y+dy); v > max {
						max = v
					}
				}
			}
			out.Set(x, y, max)
		}
	}
	return out
}
