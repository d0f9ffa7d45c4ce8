package geometry

import (
	"math"
	"testing"

	"github.com/wudi/ocrkit/raster"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
	}{
		{"projection", Projection},
		{"line_based", LineBased},
		{"bogus", LineBased},
		{"", LineBased},
	}
	for _, tt := range tests {
		if got := ParseMethod(tt.in); got != tt.want {
			t.Errorf("ParseMethod(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMethodString(t *testing.T) {
	if got := LineBased.String(); got != "line_based" {
		t.Errorf("LineBased.String() = %q", got)
	}
	if got := Projection.String(); got != "projection" {
		t.Errorf("Projection.String() = %q", got)
	}
}

func TestRemoveBordersCropsBlackFrame(t *testing.T) {
	// 100x100 black frame with a white content area at [10, 89] in both axes.
	// Content bounds expand by the margin of 2, so the crop is 83x83.
	b, _ := raster.New(100, 100)
	for y := 10; y < 90; y++ {
		for x := 10; x < 90; x++ {
			b.SetRGB(x, y, raster.White)
		}
	}
	out := RemoveBorders(b)
	if out.Width() != 83 || out.Height() != 83 {
		t.Fatalf("cropped to %dx%d, want 83x83", out.Width(), out.Height())
	}
	// The content area must survive the crop.
	if v, _, _, _ := out.RGBA(41, 41); v != 255 {
		t.Errorf("content center = %d, want 255", v)
	}
}

func TestRemoveBordersNegligible(t *testing.T) {
	// No border at all: the crop would keep more than 95% of the area, so the
	// input comes back unchanged.
	b, _ := raster.NewFilled(100, 100, raster.White)
	if out := RemoveBorders(b); out != b {
		t.Error("borderless image should be returned unchanged")
	}
}

func TestRemoveBordersAllBlack(t *testing.T) {
	// No row or column ever crosses the content threshold; the fallback
	// bounds cover the full image and the crop is skipped.
	b, _ := raster.New(50, 50)
	if out := RemoveBorders(b); out != b {
		t.Error("all-black image should be returned unchanged")
	}
}

// stripes returns a white buffer with full-width black stripes, a strongly
// anisotropic pattern whose horizontal projection collapses when rotated.
func stripes(t *testing.T, w, h int) *raster.Buffer {
	t.Helper()
	b, _ := raster.NewFilled(w, h, raster.White)
	for y := 0; y < h; y++ {
		if y%20 < 5 {
			for x := 0; x < w; x++ {
				b.SetRGB(x, y, raster.Black)
			}
		}
	}
	return b
}

func TestEstimateSkewProjection(t *testing.T) {
	if testing.Short() {
		t.Skip("projection search is slow")
	}
	base := stripes(t, 200, 200)
	skewed := raster.Rotate(base, 4*math.Pi/180, raster.White)

	got := EstimateSkewProjection(skewed)
	if math.Abs(got-4.0) > 0.5 {
		t.Fatalf("estimated skew = %v, want 4.0 +-0.5", got)
	}
}

func TestDeskewProjectionAlignedUnchanged(t *testing.T) {
	if testing.Short() {
		t.Skip("projection search is slow")
	}
	b := stripes(t, 120, 120)
	if out := DeskewProjection(b); out != b {
		t.Error("aligned image should be returned unchanged")
	}
}

func TestDeskewProjectionCorrects(t *testing.T) {
	if testing.Short() {
		t.Skip("projection search is slow")
	}
	base := stripes(t, 200, 200)
	skewed := raster.Rotate(base, 3*math.Pi/180, raster.White)

	out := DeskewProjection(skewed)
	if out == skewed {
		t.Fatal("3 degree skew should trigger a correction")
	}
	residual := EstimateSkewProjection(out)
	if math.Abs(residual) > 0.5 {
		t.Fatalf("residual skew after correction = %v, want within 0.5", residual)
	}
}

func TestDeskewLinesBlankUnchanged(t *testing.T) {
	b, _ := raster.NewFilled(100, 100, raster.White)
	if out := DeskewLines(b); out != b {
		t.Error("blank image has no lines and should be returned unchanged")
	}
}

func TestDeskewLinesAlignedUnchanged(t *testing.T) {
	// Horizontal rules produce lines at exactly 0 degrees after
	// normalization, below the 0.5 degree correction gate.
	b, _ := raster.NewFilled(300, 200, raster.White)
	for _, y := range []int{50, 100, 150} {
		for x := 0; x < 300; x++ {
			b.SetRGB(x, y, raster.Black)
			b.SetRGB(x, y+1, raster.Black)
		}
	}
	if out := DeskewLines(b); out != b {
		t.Error("axis-aligned rules should not trigger a correction")
	}
}

func TestDeskewDispatch(t *testing.T) {
	b, _ := raster.NewFilled(60, 60, raster.White)
	if out := Deskew(b, LineBased); out != b {
		t.Error("LineBased dispatch on blank image should be a no-op")
	}
	if out := Deskew(b, Projection); out != b {
		t.Error("Projection dispatch on blank image should be a no-op")
	}
}
