// Package filter implements the denoising stages: separable Gaussian blur and
// an edge-preserving bilateral filter.
package filter

import (
	"math"

	"github.com/wudi/ocrkit/raster"
)

// Gaussian applies a separable Gaussian kernel of the given sigma to each
// color channel independently; alpha stays at 255. A sigma of zero or less
// disables the stage and the input is returned unchanged.
func Gaussian(b *raster.Buffer, sigma float64) *raster.Buffer {
	if sigma <= 0 {
		return b
	}
	kernel := gaussianKernel(sigma)
	radius := len(kernel) / 2
	w, h := b.Width(), b.Height()

	// Horizontal pass into a float scratch, then vertical pass back to bytes.
	scratch := make([]float64, 3*w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc [3]float64
			for k := -radius; k <= radius; k++ {
				sx := clampInt(x+k, 0, w-1)
				r, g, bl, _ := b.RGBA(sx, y)
				weight := kernel[k+radius]
				acc[0] += weight * float64(r)
				acc[1] += weight * float64(g)
				acc[2] += weight * float64(bl)
			}
			i := 3 * (y*w + x)
			scratch[i] = acc[0]
			scratch[i+1] = acc[1]
			scratch[i+2] = acc[2]
		}
	}

	out, _ := raster.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc [3]float64
			for k := -radius; k <= radius; k++ {
				sy := clampInt(y+k, 0, h-1)
				i := 3 * (sy*w + x)
				weight := kernel[k+radius]
				acc[0] += weight * scratch[i]
				acc[1] += weight * scratch[i+1]
				acc[2] += weight * scratch[i+2]
			}
			out.SetRGB(x, y, raster.RGB{
				R: roundU8(acc[0]),
				G: roundU8(acc[1]),
				B: roundU8(acc[2]),
			})
		}
	}
	return out
}

func gaussianKernel(sigma float64) []float64 {
	radius := int(3*sigma + 0.5)
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	inv := 1 / (2 * sigma * sigma)
	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-d * d * inv)
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

const (
	bilateralRadius = 5
	sigmaSpace      = 75.0
	sigmaColor      = 75.0
)

// Bilateral applies an edge-preserving blur: each neighbor within the
// radius-5 window is weighted by both its spatial distance and its Euclidean
// RGB distance from the center pixel. Out-of-range neighbor coordinates are
// clamped to the image edge. When enabled, this stage takes precedence over
// Gaussian blur in the pipeline.
func Bilateral(b *raster.Buffer) *raster.Buffer {
	w, h := b.Width(), b.Height()
	out, _ := raster.New(w, h)

	invSpace := 1 / (2 * sigmaSpace * sigmaSpace)
	invColor := 1 / (2 * sigmaColor * sigmaColor)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cr, cg, cb, _ := b.RGBA(x, y)
			var sum [3]float64
			weightSum := 0.0
			for dy := -bilateralRadius; dy <= bilateralRadius; dy++ {
				ny := clampInt(y+dy, 0, h-1)
				for dx := -bilateralRadius; dx <= bilateralRadius; dx++ {
					nx := clampInt(x+dx, 0, w-1)
					nr, ng, nb, _ := b.RGBA(nx, ny)

					spaceSq := float64(dx*dx + dy*dy)
					dr := float64(cr) - float64(nr)
					dg := float64(cg) - float64(ng)
					db := float64(cb) - float64(nb)
					colorSq := dr*dr + dg*dg + db*db

					weight := math.Exp(-spaceSq*invSpace) * math.Exp(-colorSq*invColor)
					weightSum += weight
					sum[0] += weight * float64(nr)
					sum[1] += weight * float64(ng)
					sum[2] += weight * float64(nb)
				}
			}
			out.SetRGB(x, y, raster.RGB{
				R: uint8(sum[0] / weightSum),
				G: uint8(sum[1] / weightSum),
				B: uint8(sum[2] / weightSum),
			})
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundU8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
