// Package geometry implements the geometric correction stages: border removal
// via projection profiles and two deskewing methods (line-based and
// projection-profile). Both deskew methods return the input unchanged when no
// reliable correction is found; skew correction must never degrade an already
// aligned image.
package geometry

import "github.com/wudi/ocrkit/raster"

// RemoveBorders crops scanning artifacts around the content area. A row or
// column counts as content when its grayscale projection exceeds 10% of its
// theoretical maximum. The detected bounding box is expanded by a margin of
// max(dimension/50, 2) on each side, clamped to the buffer. When the crop
// would retain more than 95% of the original area the border is judged
// negligible and the input is returned unchanged.
func RemoveBorders(b *raster.Buffer) *raster.Buffer {
	gray := b.GrayPlane()
	w, h := gray.W, gray.H

	rowSums := make([]int, h)
	colSums := make([]int, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := int(gray.At(x, y))
			rowSums[y] += v
			colSums[x] += v
		}
	}

	rowThreshold := w * 255 / 10
	colThreshold := h * 255 / 10

	top := firstAbove(rowSums, rowThreshold, 0)
	bottom := lastAbove(rowSums, rowThreshold, h-1)
	left := firstAbove(colSums, colThreshold, 0)
	right := lastAbove(colSums, colThreshold, w-1)

	marginX := max(w/50, 2)
	marginY := max(h/50, 2)

	cropLeft := max(left-marginX, 0)
	cropTop := max(top-marginY, 0)
	cropRight := min(right+marginX, w-1)
	cropBottom := min(bottom+marginY, h-1)

	cropW := cropRight - cropLeft
	cropH := cropBottom - cropTop
	if cropW < 1 || cropH < 1 {
		return b
	}
	if cropW*cropH > w*h*95/100 {
		return b
	}

	out, err := b.Crop(cropLeft, cropTop, cropW, cropH)
	if err != nil {
		return b
	}
	return out
}

func firstAbove(sums []int, threshold, fallback int) int {
	for i, v := range sums {
		if v > threshold {
			return i
		}
	}
	return fallback
}

func lastAbove(sums []int, threshold, fallback int) int {
	for i := len(sums) - 1; i >= 0; i-- {
		if sums[i] > threshold {
			return i
		}
	}
	return fallback
}
