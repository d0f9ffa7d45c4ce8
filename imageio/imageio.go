// Package imageio converts between encoded image bytes or files and raster
// buffers. Decoding understands PNG, JPEG, GIF, BMP, and TIFF; encoding
// writes PNG. File-based helpers go through the imaging library, which also
// applies EXIF auto-orientation on open.
package imageio

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/wudi/ocrkit/raster"
)

// Decode reads an encoded image and converts it to a buffer.
func Decode(r io.Reader) (*raster.Buffer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode: %w", err)
	}
	return raster.FromImage(img), nil
}

// EncodePNG writes the buffer as PNG.
func EncodePNG(w io.Writer, b *raster.Buffer) error {
	if err := png.Encode(w, b.ToImage()); err != nil {
		return fmt.Errorf("imageio: encode png: %w", err)
	}
	return nil
}

// Open loads an image file into a buffer, honoring EXIF orientation.
func Open(path string) (*raster.Buffer, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("imageio: open %s: %w", path, err)
	}
	return raster.FromImage(img), nil
}

// Save writes the buffer to a file; the format follows the extension.
func Save(b *raster.Buffer, path string) error {
	if err := imaging.Save(b.ToImage(), path); err != nil {
		return fmt.Errorf("imageio: save %s: %w", path, err)
	}
	return nil
}

// Upscale2x doubles the buffer dimensions with Lanczos resampling. Small
// captures often recognize better after upscaling; this is an optional
// pre-step, not a pipeline stage.
func Upscale2x(b *raster.Buffer) *raster.Buffer {
	resized := imaging.Resize(b.ToImage(), 0, 2*b.Height(), imaging.Lanczos)
	return raster.FromImage(resized)
}

// Thumbnail scales the buffer down so its longer side is at most maxDim,
// preserving aspect ratio. Buffers already within the limit are cloned
// unchanged.
func Thumbnail(b *raster.Buffer, maxDim int) *raster.Buffer {
	w, h := b.Width(), b.Height()
	longest := w
	if h > longest {
		longest = h
	}
	if maxDim < 1 || longest <= maxDim {
		return b.Clone()
	}
	outW := w * maxDim / longest
	outH := h * maxDim / longest
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}
	src := b.ToImage()
	dst := image.NewNRGBA(image.Rect(0, 0, outW, outH))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return raster.FromImage(dst)
}
