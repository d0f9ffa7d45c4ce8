// Package quality measures image characteristics used to auto-tune the
// preprocessing pipeline: Laplacian-variance blur detection, global contrast,
// local-variance noise estimation, and mean brightness.
package quality

import (
	"fmt"
	"math"

	"github.com/wudi/ocrkit/raster"
)

// Metrics holds the per-image quality scores. Blur, contrast, and noise are
// clamped to [0, 100]; brightness is the raw mean grayscale value in [0, 255].
type Metrics struct {
	// BlurScore is derived from the Laplacian variance. Lower means blurrier.
	BlurScore float64
	// ContrastScore is the grayscale standard deviation scaled to [0, 100].
	ContrastScore float64
	// NoiseLevel averages local standard deviations over sampled windows.
	// Higher means noisier.
	NoiseLevel float64
	// BrightnessLevel is the mean grayscale value.
	BrightnessLevel float64
}

const (
	noiseWindow = 3 // half-width of the 7x7 sampling window
	noiseStep   = 5 // sample every 5th pixel in both axes
)

// Assess computes quality metrics for the buffer. The buffer must be at least
// 3x3 so the Laplacian has a one-pixel interior margin. Assess is a pure
// function: it never modifies the input.
func Assess(b *raster.Buffer) (Metrics, error) {
	w, h := b.Width(), b.Height()
	if w < 3 || h < 3 {
		return Metrics{}, fmt.Errorf("quality: buffer %dx%d too small for Laplacian (need 3x3)", w, h)
	}
	gray := b.GrayPlane()

	var m Metrics
	m.BlurScore = blurScore(gray)
	m.ContrastScore, m.BrightnessLevel = contrastAndBrightness(gray)
	m.NoiseLevel = noiseLevel(gray)
	return m, nil
}

// blurScore accumulates squared responses of the discrete 3x3 Laplacian
// (center 8, neighbors -1) over interior pixels, normalizes by the interior
// pixel count, scales by 1/1000, and clamps to [0, 100].
func blurScore(g *raster.Plane) float64 {
	sum := 0.0
	for y := 1; y < g.H-1; y++ {
		for x := 1; x < g.W-1; x++ {
			lap := 8*float64(g.At(x, y)) -
				float64(g.At(x-1, y-1)) - float64(g.At(x, y-1)) - float64(g.At(x+1, y-1)) -
				float64(g.At(x-1, y)) - float64(g.At(x+1, y)) -
				float64(g.At(x-1, y+1)) - float64(g.At(x, y+1)) - float64(g.At(x+1, y+1))
			sum += lap * lap
		}
	}
	variance := sum / float64((g.W-2)*(g.H-2))
	return clamp100(variance / 1000)
}

func contrastAndBrightness(g *raster.Plane) (contrast, brightness float64) {
	var sum, sqSum float64
	for _, v := range g.Pix {
		f := float64(v)
		sum += f
		sqSum += f * f
	}
	n := float64(len(g.Pix))
	mean := sum / n
	variance := sqSum/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return clamp100(math.Sqrt(variance) / 2.55), mean
}

// noiseLevel samples a 7x7 window centered at every 5th pixel, skipping a
// 3-pixel border, and averages the local standard deviations. Buffers smaller
// than 7 pixels in either axis yield zero samples and report 0.
func noiseLevel(g *raster.Plane) float64 {
	var noiseSum float64
	samples := 0
	for y := noiseWindow; y < g.H-noiseWindow; y += noiseStep {
		for x := noiseWindow; x < g.W-noiseWindow; x += noiseStep {
			var sum, sqSum float64
			for dy := -noiseWindow; dy <= noiseWindow; dy++ {
				for dx := -noiseWindow; dx <= noiseWindow; dx++ {
					f := float64(g.At(x+dx, y+dy))
					sum += f
					sqSum += f * f
				}
			}
			const count = float64((2*noiseWindow + 1) * (2*noiseWindow + 1))
			mean := sum / count
			variance := sqSum/count - mean*mean
			if variance < 0 {
				variance = 0
			}
			noiseSum += math.Sqrt(variance)
			samples++
		}
	}
	if samples == 0 {
		return 0
	}
	return clamp100(noiseSum / float64(samples))
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
