// Package adjust implements the tone stages: brightness, contrast, and
// unsharp-mask sharpening.
package adjust

import (
	"fmt"

	"github.com/wudi/ocrkit/raster"
)

// Brightness adds amount*255 to each color channel, clamped to [0, 255].
// amount is expected in [-1, 1]; 0 is the identity.
func Brightness(b *raster.Buffer, amount float64) *raster.Buffer {
	delta := amount * 255
	out := b.Clone()
	mapChannels(out, func(v uint8) uint8 {
		return clampU8(float64(v) + delta)
	})
	return out
}

// Contrast remaps each color channel through (v-128)*factor+128, clamped to
// [0, 255]. factor 1.0 is the identity.
func Contrast(b *raster.Buffer, factor float64) *raster.Buffer {
	out := b.Clone()
	mapChannels(out, func(v uint8) uint8 {
		return clampU8((float64(v)-128)*factor + 128)
	})
	return out
}

// Sharpen applies an unsharp mask: for every interior pixel, each channel is
// pushed away from its 4-neighbor average by amount = (sharpness-1)*2. The
// one-pixel border is copied unchanged. Sharpness values at or below 1.0 are
// gated off by the orchestrator; the function still accepts them and produces
// the corresponding (softening) result.
func Sharpen(b *raster.Buffer, sharpness float64) (*raster.Buffer, error) {
	w, h := b.Width(), b.Height()
	if w < 3 || h < 3 {
		return nil, fmt.Errorf("adjust: buffer %dx%d too small to sharpen (need 3x3)", w, h)
	}
	amount := (sharpness - 1) * 2
	out := b.Clone()
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			cr, cg, cb, _ := b.RGBA(x, y)
			lr, lg, lb, _ := b.RGBA(x-1, y)
			rr, rg, rb, _ := b.RGBA(x+1, y)
			ur, ug, ub, _ := b.RGBA(x, y-1)
			dr, dg, db, _ := b.RGBA(x, y+1)
			out.SetRGB(x, y, raster.RGB{
				R: sharpenChannel(cr, lr, rr, ur, dr, amount),
				G: sharpenChannel(cg, lg, rg, ug, dg, amount),
				B: sharpenChannel(cb, lb, rb, ub, db, amount),
			})
		}
	}
	return out, nil
}

func sharpenChannel(center, left, right, up, down uint8, amount float64) uint8 {
	avg := (float64(left) + float64(right) + float64(up) + float64(down)) / 4
	c := float64(center)
	return clampU8(c + amount*(c-avg))
}

func mapChannels(b *raster.Buffer, f func(uint8) uint8) {
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			r, g, bl, _ := b.RGBA(x, y)
			b.SetRGB(x, y, raster.RGB{R: f(r), G: f(g), B: f(bl)})
		}
	}
}

func clampU8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
