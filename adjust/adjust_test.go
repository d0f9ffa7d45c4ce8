package adjust

import (
	"testing"

	"github.com/wudi/ocrkit/raster"
)

func TestBrightness(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		in     uint8
		want   uint8
	}{
		{"identity", 0, 100, 100},
		{"lighten", 0.25, 100, 163},
		{"darken", -0.25, 100, 36},
		{"clamp high", 1.0, 100, 255},
		{"clamp low", -1.0, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := raster.NewFilled(4, 4, raster.RGB{R: tt.in, G: tt.in, B: tt.in})
			out := Brightness(b, tt.amount)
			r, _, _, _ := out.RGBA(2, 2)
			if r != tt.want {
				t.Errorf("Brightness(%d, %v) = %d, want %d", tt.in, tt.amount, r, tt.want)
			}
		})
	}
}

func TestBrightnessDoesNotModifyInput(t *testing.T) {
	b, _ := raster.NewFilled(3, 3, raster.RGB{R: 100, G: 100, B: 100})
	Brightness(b, 0.5)
	r, _, _, _ := b.RGBA(1, 1)
	if r != 100 {
		t.Fatalf("input modified: got %d, want 100", r)
	}
}

func TestContrast(t *testing.T) {
	tests := []struct {
		name   string
		factor float64
		in     uint8
		want   uint8
	}{
		{"identity", 1.0, 77, 77},
		{"midpoint fixed", 2.0, 128, 128},
		{"expand above", 1.25, 150, 155},
		{"expand below", 1.25, 100, 93},
		{"compress", 0.5, 200, 164},
		{"clamp high", 3.0, 250, 255},
		{"clamp low", 3.0, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := raster.NewFilled(4, 4, raster.RGB{R: tt.in, G: tt.in, B: tt.in})
			out := Contrast(b, tt.factor)
			r, _, _, _ := out.RGBA(1, 1)
			if r != tt.want {
				t.Errorf("Contrast(%d, %v) = %d, want %d", tt.in, tt.factor, r, tt.want)
			}
		})
	}
}

func TestContrastRoughlyInvertible(t *testing.T) {
	// Expanding then compressing by the reciprocal should land close to the
	// original for midtones: only quantization error remains.
	b, _ := raster.NewFilled(4, 4, raster.RGB{R: 150, G: 90, B: 128})
	out := Contrast(Contrast(b, 1.25), 0.8)
	r, g, bl, _ := out.RGBA(2, 2)
	for i, pair := range []struct{ got, want uint8 }{{r, 150}, {g, 90}, {bl, 128}} {
		d := int(pair.got) - int(pair.want)
		if d < -2 || d > 2 {
			t.Errorf("channel %d: round trip %d, want %d +-2", i, pair.got, pair.want)
		}
	}
}

func TestSharpenTooSmall(t *testing.T) {
	b, _ := raster.New(2, 2)
	if _, err := Sharpen(b, 1.5); err == nil {
		t.Fatal("expected error for 2x2 buffer, got nil")
	}
}

func TestSharpenUniformUnchanged(t *testing.T) {
	b, _ := raster.NewFilled(5, 5, raster.RGB{R: 120, G: 120, B: 120})
	out, err := Sharpen(b, 2.0)
	if err != nil {
		t.Fatalf("Sharpen failed: %v", err)
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			r, _, _, _ := out.RGBA(x, y)
			if r != 120 {
				t.Fatalf("uniform image changed at (%d,%d): %d", x, y, r)
			}
		}
	}
}

func TestSharpenBoostsCenter(t *testing.T) {
	b, _ := raster.NewFilled(5, 5, raster.RGB{R: 100, G: 100, B: 100})
	b.SetRGB(2, 2, raster.RGB{R: 150, G: 150, B: 150})

	// sharpness 1.5 gives amount 1.0; the center is pushed away from its
	// 4-neighbor average of 100 by the full difference.
	out, err := Sharpen(b, 1.5)
	if err != nil {
		t.Fatalf("Sharpen failed: %v", err)
	}
	r, _, _, _ := out.RGBA(2, 2)
	if r != 200 {
		t.Errorf("sharpened center = %d, want 200", r)
	}
}

func TestSharpenBorderCopied(t *testing.T) {
	b, _ := raster.NewFilled(5, 5, raster.RGB{R: 100, G: 100, B: 100})
	b.SetRGB(0, 0, raster.RGB{R: 37, G: 37, B: 37})
	b.SetRGB(4, 4, raster.RGB{R: 211, G: 211, B: 211})
	b.SetRGB(2, 2, raster.White)

	out, err := Sharpen(b, 2.0)
	if err != nil {
		t.Fatalf("Sharpen failed: %v", err)
	}
	if r, _, _, _ := out.RGBA(0, 0); r != 37 {
		t.Errorf("border (0,0) = %d, want 37 copied unchanged", r)
	}
	if r, _, _, _ := out.RGBA(4, 4); r != 211 {
		t.Errorf("border (4,4) = %d, want 211 copied unchanged", r)
	}
}
