package geometry

import (
	"math"

	"github.com/wudi/ocrkit/binarize"
	"github.com/wudi/ocrkit/raster"
)

// Method selects a deskewing algorithm.
type Method int

const (
	// LineBased detects straight lines over an edge map and averages their
	// angles. Robust to vector-graphic noise, sensitive to edge thresholds.
	LineBased Method = iota
	// Projection searches rotation angles for the one maximizing the variance
	// of the horizontal ink projection. More robust for dense text blocks but
	// costs one full-image rotation per candidate angle.
	Projection
)

func (m Method) String() string {
	if m == Projection {
		return "projection"
	}
	return "line_based"
}

// ParseMethod maps a selector string to a Method. Unrecognized values resolve
// to LineBased, the historical default.
func ParseMethod(s string) Method {
	if s == "projection" {
		return Projection
	}
	return LineBased
}

const (
	// Rotations below this magnitude (degrees) are skipped: correcting them
	// costs more in interpolation loss than the residual skew.
	minLineAngle       = 0.5
	minProjectionAngle = 0.3

	projectionRange = 10.0 // search [-10, +10] degrees
	projectionStep  = 0.1
)

// DeskewProjection estimates the skew of the buffer with a projection-profile
// search and rotates it back. The buffer is returned unchanged when the best
// angle magnitude is below 0.3 degrees.
func DeskewProjection(b *raster.Buffer) *raster.Buffer {
	angle := EstimateSkewProjection(b)
	if math.Abs(angle) < minProjectionAngle {
		return b
	}
	return raster.Rotate(b, -angle*math.Pi/180, raster.White)
}

// EstimateSkewProjection binarizes a grayscale copy with the Otsu threshold
// and tests candidate angles from -10 to +10 degrees in 0.1 degree steps. For
// each candidate the binary view is counter-rotated (white fill) and the
// variance of the per-row ink count is computed; the candidate maximizing
// that variance is the estimated skew, with ties resolved toward the first
// (smallest) tested angle. Rotating the buffer by the negative of the
// returned value therefore aligns it.
func EstimateSkewProjection(b *raster.Buffer) float64 {
	gray := b.GrayPlane()
	threshold := binarize.OtsuThreshold(b.Histogram())

	binary := raster.NewPlane(gray.W, gray.H)
	for i, v := range gray.Pix {
		if v > threshold {
			binary.Pix[i] = 255
		}
	}

	maxVariance := 0.0
	bestAngle := 0.0
	steps := int(projectionRange / projectionStep)
	for i := -steps; i <= steps; i++ {
		angle := float64(i) * projectionStep
		rotated := raster.RotatePlane(binary, -angle*math.Pi/180, 255)
		if v := projectionVariance(rotated); v > maxVariance {
			maxVariance = v
			bestAngle = angle
		}
	}
	return bestAngle
}

// projectionVariance counts ink (zero) pixels per row and returns the
// variance of that row-count vector.
func projectionVariance(p *raster.Plane) float64 {
	counts := make([]float64, p.H)
	for y := 0; y < p.H; y++ {
		row := 0
		for x := 0; x < p.W; x++ {
			if p.At(x, y) == 0 {
				row++
			}
		}
		counts[y] = float64(row)
	}

	mean := 0.0
	for _, c := range counts {
		mean += c
	}
	mean /= float64(len(counts))

	variance := 0.0
	for _, c := range counts {
		d := c - mean
		variance += d * d
	}
	return variance / float64(len(counts))
}

// Deskew dispatches to the selected method.
func Deskew(b *raster.Buffer, m Method) *raster.Buffer {
	if m == Projection {
		return DeskewProjection(b)
	}
	return DeskewLines(b)
}
