package raster

import (
	"fmt"
	"image"
	"image/color"
)

// Buffer is a dense row-major RGBA8 raster. Alpha is always 255; the pipeline
// has no transparency semantics.
type Buffer struct {
	width  int
	height int
	pix    []uint8 // 4 bytes per pixel, RGBA order
}

// New returns a buffer of the given dimensions filled with opaque black.
func New(width, height int) (*Buffer, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("raster: invalid dimensions %dx%d", width, height)
	}
	b := &Buffer{width: width, height: height, pix: make([]uint8, 4*width*height)}
	for i := 3; i < len(b.pix); i += 4 {
		b.pix[i] = 255
	}
	return b, nil
}

// NewFilled returns a buffer of the given dimensions with every pixel set to
// the given color.
func NewFilled(width, height int, c RGB) (*Buffer, error) {
	b, err := New(width, height)
	if err != nil {
		return nil, err
	}
	b.Fill(c)
	return b, nil
}

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

// White and Black are the fill colors used throughout the pipeline.
var (
	White = RGB{255, 255, 255}
	Black = RGB{0, 0, 0}
)

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }

// RGBA returns the channel values at (x, y). The coordinates must be in
// bounds.
func (b *Buffer) RGBA(x, y int) (r, g, bl, a uint8) {
	i := 4 * (y*b.width + x)
	return b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3]
}

// SetRGB sets the color at (x, y), keeping alpha at 255.
func (b *Buffer) SetRGB(x, y int, c RGB) {
	i := 4 * (y*b.width + x)
	b.pix[i] = c.R
	b.pix[i+1] = c.G
	b.pix[i+2] = c.B
	b.pix[i+3] = 255
}

// Fill sets every pixel to the given color.
func (b *Buffer) Fill(c RGB) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			b.SetRGB(x, y, c)
		}
	}
}

// Gray returns the luma value at (x, y) using the BT.601 weights
// (0.299 R + 0.587 G + 0.114 B) with integer rounding.
func (b *Buffer) Gray(x, y int) uint8 {
	i := 4 * (y*b.width + x)
	return Luma(b.pix[i], b.pix[i+1], b.pix[i+2])
}

// Luma converts one RGB sample to its BT.601 grayscale value.
func Luma(r, g, b uint8) uint8 {
	return uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b) + 500) / 1000)
}

// Clone returns an independent deep copy.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.pix))
	copy(pix, b.pix)
	return &Buffer{width: b.width, height: b.height, pix: pix}
}

// Crop returns a new buffer holding the w x h region with its upper-left
// corner at (x, y). The region must lie inside the buffer and have positive
// dimensions.
func (b *Buffer) Crop(x, y, w, h int) (*Buffer, error) {
	if w < 1 || h < 1 || x < 0 || y < 0 || x+w > b.width || y+h > b.height {
		return nil, fmt.Errorf("raster: crop %dx%d+%d+%d outside %dx%d", w, h, x, y, b.width, b.height)
	}
	out, _ := New(w, h)
	for row := 0; row < h; row++ {
		src := 4 * ((y+row)*b.width + x)
		dst := 4 * row * w
		copy(out.pix[dst:dst+4*w], b.pix[src:src+4*w])
	}
	return out, nil
}

// FromImage converts any stdlib image into a buffer, discarding alpha.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	out, _ := New(bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			out.SetRGB(x-bounds.Min.X, y-bounds.Min.Y, RGB{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8)})
		}
	}
	return out
}

// ToImage converts the buffer into a stdlib NRGBA image.
func (b *Buffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			r, g, bl, _ := b.RGBA(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: bl, A: 255})
		}
	}
	return img
}

// Histogram counts grayscale intensities into 256 bins.
type Histogram [256]int

// Histogram computes the grayscale histogram of the buffer.
func (b *Buffer) Histogram() Histogram {
	var h Histogram
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			h[b.Gray(x, y)]++
		}
	}
	return h
}

// Total returns the number of counted samples.
func (h Histogram) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}
