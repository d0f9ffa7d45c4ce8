package raster

// Plane is a single-channel 8-bit view of a buffer. The windowed operators
// (bilateral filter, Sauvola threshold, noise sampling, morphology) all index
// neighborhoods through AtClamped so out-of-range coordinates snap to the
// nearest valid pixel instead of wrapping or mirroring.
type Plane struct {
	W, H int
	Pix  []uint8 // row-major, len == W*H
}

// NewPlane returns a zero-filled plane.
func NewPlane(w, h int) *Plane {
	return &Plane{W: w, H: h, Pix: make([]uint8, w*h)}
}

// GrayPlane extracts the grayscale view of the buffer.
func (b *Buffer) GrayPlane() *Plane {
	p := NewPlane(b.width, b.height)
	i := 0
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			p.Pix[i] = b.Gray(x, y)
			i++
		}
	}
	return p
}

// At returns the value at (x, y). The coordinates must be in bounds.
func (p *Plane) At(x, y int) uint8 { return p.Pix[y*p.W+x] }

// Set stores the value at (x, y).
func (p *Plane) Set(x, y int, v uint8) { p.Pix[y*p.W+x] = v }

// AtClamped returns the value at (x, y) with coordinates clamped to the plane
// edges.
func (p *Plane) AtClamped(x, y int) uint8 {
	if x < 0 {
		x = 0
	} else if x >= p.W {
		x = p.W - 1
	}
	if y < 0 {
		y = 0
	} else if y >= p.H {
		y = p.H - 1
	}
	return p.Pix[y*p.W+x]
}

// Clone returns an independent deep copy.
func (p *Plane) Clone() *Plane {
	pix := make([]uint8, len(p.Pix))
	copy(pix, p.Pix)
	return &Plane{W: p.W, H: p.H, Pix: pix}
}

// ToBuffer expands the plane back to RGBA with equal channels and alpha 255.
func (p *Plane) ToBuffer() *Buffer {
	b, _ := New(p.W, p.H)
	i := 0
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			v := p.Pix[i]
			b.SetRGB(x, y, RGB{v, v, v})
			i++
		}
	}
	return b
}
