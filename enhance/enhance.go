// Package enhance implements the contrast-enhancement stage. The operation is
// a global grayscale histogram equalization; it is not tile-based adaptive
// equalization, even though upstream callers historically labeled it CLAHE.
package enhance

import "github.com/wudi/ocrkit/raster"

// EqualizeHistogram remaps each pixel's luma through the cumulative
// distribution of the 256-bin grayscale histogram. The result is a grayscale
// buffer with equal R, G, B channels and alpha 255.
func EqualizeHistogram(b *raster.Buffer) *raster.Buffer {
	gray := b.GrayPlane()
	hist := b.Histogram()
	total := len(gray.Pix)

	var lut [256]uint8
	cumulative := 0
	for i := 0; i < 256; i++ {
		cumulative += hist[i]
		lut[i] = uint8(cumulative * 255 / total)
	}

	out := raster.NewPlane(gray.W, gray.H)
	for i, v := range gray.Pix {
		out.Pix[i] = lut[v]
	}
	return out.ToBuffer()
}
