// Package binarize reduces a buffer to pure black and white using one of four
// thresholding methods: fixed-block adaptive, Otsu, global mean, or Sauvola.
// Binarization is always the terminal pipeline stage when enabled.
package binarize

import (
	"math"

	"github.com/wudi/ocrkit/raster"
)

// Method selects a thresholding algorithm.
type Method int

const (
	None Method = iota
	Adaptive
	Otsu
	Mean
	Sauvola
)

func (m Method) String() string {
	switch m {
	case None:
		return "none"
	case Adaptive:
		return "adaptive"
	case Otsu:
		return "otsu"
	case Mean:
		return "mean"
	case Sauvola:
		return "sauvola"
	}
	return "none"
}

// ParseMethod maps a selector string to a Method. Unrecognized values resolve
// to None so a configuration typo degrades to a no-op instead of failing.
func ParseMethod(s string) Method {
	switch s {
	case "adaptive":
		return Adaptive
	case "otsu":
		return Otsu
	case "mean":
		return Mean
	case "sauvola":
		return Sauvola
	}
	return None
}

const (
	adaptiveBlock = 15  // local window size for the adaptive method
	sauvolaWindow = 15  // local window size for Sauvola
	sauvolaK      = 0.5 // sensitivity
	sauvolaR      = 128 // dynamic range of the standard deviation
)

// Apply binarizes the grayscale view of the buffer with the selected method.
// Every output pixel is exactly (0,0,0,255) or (255,255,255,255). Method
// values outside the known set (including None) return the input unchanged.
func Apply(b *raster.Buffer, m Method) *raster.Buffer {
	switch m {
	case Adaptive:
		return adaptiveThreshold(b.GrayPlane()).ToBuffer()
	case Otsu:
		return otsuThreshold(b)
	case Mean:
		return meanThreshold(b.GrayPlane())
	case Sauvola:
		return sauvolaThreshold(b.GrayPlane()).ToBuffer()
	}
	return b
}

// OtsuThreshold computes the threshold maximizing the between-class variance
// of the histogram. Cumulative intensity sums use Kahan-compensated summation
// to avoid precision loss on large images. The first threshold achieving the
// maximum wins, so ties break toward the lower value. A flat histogram, where
// every split leaves one class empty, falls back to threshold 0.
func OtsuThreshold(hist raster.Histogram) uint8 {
	total := float64(hist.Total())

	// Total intensity sum with Kahan compensation.
	sum := 0.0
	compensation := 0.0
	for i := 0; i < 256; i++ {
		value := float64(i) * float64(hist[i])
		y := value - compensation
		t := sum + y
		compensation = (t - sum) - y
		sum = t
	}

	var (
		sumB        float64
		wB          float64
		maxVariance float64
		threshold   uint8
	)
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])

		mB := sumB / wB
		mF := (sum - sumB) / wF
		variance := wB * wF * (mB - mF) * (mB - mF)
		if variance > maxVariance {
			maxVariance = variance
			threshold = uint8(t)
		}
	}
	return threshold
}

func otsuThreshold(b *raster.Buffer) *raster.Buffer {
	gray := b.GrayPlane()
	t := OtsuThreshold(b.Histogram())
	return thresholdPlane(gray, t).ToBuffer()
}

// MeanThreshold returns the integer mean grayscale value of the plane.
func MeanThreshold(p *raster.Plane) uint8 {
	var sum uint64
	for _, v := range p.Pix {
		sum += uint64(v)
	}
	return uint8(sum / uint64(len(p.Pix)))
}

func meanThreshold(p *raster.Plane) *raster.Buffer {
	return thresholdPlane(p, MeanThreshold(p)).ToBuffer()
}

// thresholdPlane classifies values strictly greater than t as white.
func thresholdPlane(p *raster.Plane, t uint8) *raster.Plane {
	out := raster.NewPlane(p.W, p.H)
	for i, v := range p.Pix {
		if v > t {
			out.Pix[i] = 255
		}
	}
	return out
}

// adaptiveThreshold classifies each pixel against the mean of its 15x15
// neighborhood (clamped at the edges). Pixels above the local mean map to
// white; a pixel equal to its local mean (uniform window) keeps its own
// polarity, so already-binary regions are fixed points.
func adaptiveThreshold(p *raster.Plane) *raster.Plane {
	out := raster.NewPlane(p.W, p.H)
	half := adaptiveBlock / 2
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			var sum int
			for dy := -half; dy <= half; dy++ {
				for dx := -half; dx <= half; dx++ {
					sum += int(p.AtClamped(x+dx, y+dy))
				}
			}
			mean := sum / (adaptiveBlock * adaptiveBlock)
			v := int(p.At(x, y))
			if v > mean || (v == mean && v >= 128) {
				out.Set(x, y, 255)
			}
		}
	}
	return out
}

// sauvolaThreshold computes a per-pixel threshold
// mean * (1 + k*((stddev/R) - 1)) over a 15x15 clamped window. Pixels above
// their local threshold are classified foreground (white).
func sauvolaThreshold(p *raster.Plane) *raster.Plane {
	out := raster.NewPlane(p.W, p.H)
	half := sauvolaWindow / 2
	const count = float64(sauvolaWindow * sauvolaWindow)
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			var sum, sqSum float64
			for dy := -half; dy <= half; dy++ {
				for dx := -half; dx <= half; dx++ {
					v := float64(p.AtClamped(x+dx, y+dy))
					sum += v
					sqSum += v * v
				}
			}
			mean := sum / count
			variance := sqSum/count - mean*mean
			if variance < 0 {
				variance = 0
			}
			stddev := math.Sqrt(variance)
			threshold := mean * (1 + sauvolaK*((stddev/sauvolaR)-1))
			if float64(p.At(x, y)) > threshold {
				out.Set(x, y, 255)
			}
		}
	}
	return out
}
