package morphology

import (
	"testing"

	"github.com/wudi/ocrkit/raster"
)

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{None, "none"},
		{Erode, "erode"},
		{Dilate, "dilate"},
		{Opening, "opening"},
		{Closing, "closing"},
		{Op(42), "none"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestParseOp(t *testing.T) {
	tests := []struct {
		in   string
		want Op
	}{
		{"erode", Erode},
		{"dilate", Dilate},
		{"opening", Opening},
		{"closing", Closing},
		{"none", None},
		{"bogus", None},
		{"", None},
	}
	for _, tt := range tests {
		if got := ParseOp(tt.in); got != tt.want {
			t.Errorf("ParseOp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestApplyNoneAndUnknownUnchanged(t *testing.T) {
	b, _ := raster.New(5, 5)
	out, err := Apply(b, None)
	if err != nil {
		t.Fatalf("Apply(None) failed: %v", err)
	}
	if out != b {
		t.Error("Apply(None) should return the input buffer")
	}
	out, err = Apply(b, Op(42))
	if err != nil {
		t.Fatalf("Apply(unknown) failed: %v", err)
	}
	if out != b {
		t.Error("unknown op should return the input buffer")
	}
}

func TestApplyTooSmall(t *testing.T) {
	b, _ := raster.New(2, 5)
	if _, err := Apply(b, Erode); err == nil {
		t.Fatal("expected error for 2x5 buffer, got nil")
	}
}

func TestErodeRemovesBrightPixel(t *testing.T) {
	b, _ := raster.New(5, 5)
	b.SetRGB(2, 2, raster.White)

	out, err := Apply(b, Erode)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if v, _, _, _ := out.RGBA(x, y); v != 0 {
				t.Fatalf("pixel (%d,%d) = %d after erode, want 0", x, y, v)
			}
		}
	}
}

func TestDilateGrowsBrightPixel(t *testing.T) {
	b, _ := raster.New(5, 5)
	b.SetRGB(2, 2, raster.White)

	out, err := Apply(b, Dilate)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			v, _, _, _ := out.RGBA(x, y)
			inside := x >= 1 && x <= 3 && y >= 1 && y <= 3
			if inside && v != 255 {
				t.Fatalf("pixel (%d,%d) = %d after dilate, want 255", x, y, v)
			}
			if !inside && v != 0 {
				t.Fatalf("pixel (%d,%d) = %d after dilate, want 0", x, y, v)
			}
		}
	}
}

func TestOpeningRemovesSpeckle(t *testing.T) {
	b, _ := raster.New(7, 7)
	b.SetRGB(3, 3, raster.White)

	out, err := Apply(b, Opening)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	for y := 0; y < 7; y++ {
		for x := 0; x < 7; x++ {
			if v, _, _, _ := out.RGBA(x, y); v != 0 {
				t.Fatalf("speckle survived opening at (%d,%d): %d", x, y, v)
			}
		}
	}
}

func TestClosingFillsGap(t *testing.T) {
	b, _ := raster.NewFilled(7, 7, raster.White)
	b.SetRGB(3, 3, raster.Black)

	out, err := Apply(b, Closing)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	for y := 0; y < 7; y++ {
		for x := 0; x < 7; x++ {
			if v, _, _, _ := out.RGBA(x, y); v != 255 {
				t.Fatalf("gap not filled at (%d,%d): %d", x, y, v)
			}
		}
	}
}

func TestOpeningPreservesLargeRegion(t *testing.T) {
	b, _ := raster.New(9, 9)
	for y := 2; y <= 6; y++ {
		for x := 2; x <= 6; x++ {
			b.SetRGB(x, y, raster.White)
		}
	}
	out, err := Apply(b, Opening)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	// The 5x5 block erodes to 3x3 and dilates back to 5x5.
	for y := 2; y <= 6; y++ {
		for x := 2; x <= 6; x++ {
			if v, _, _, _ := out.RGBA(x, y); v != 255 {
				t.Fatalf("block interior lost at (%d,%d): %d", x, y, v)
			}
		}
	}
	if v, _, _, _ := out.RGBA(0, 0); v != 0 {
		t.Errorf("background corrupted: %d", v)
	}
}
