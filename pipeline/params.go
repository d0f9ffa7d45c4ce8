package pipeline

import (
	"github.com/wudi/ocrkit/binarize"
	"github.com/wudi/ocrkit/geometry"
	"github.com/wudi/ocrkit/morphology"
)

// Params configures one pipeline invocation. All fields are required; the
// zero value of each field disables the corresponding stage. Params is a
// value type and is never mutated after adaptive derivation produces its
// override copy.
type Params struct {
	// Contrast is the contrast factor; 1.0 is the identity.
	Contrast float64
	// Brightness is the brightness offset in [-1, 1]; 0 is the identity.
	Brightness float64
	// Sharpness controls unsharp masking; values at or below 1.0 disable it.
	Sharpness float64
	// Binarization selects the terminal thresholding method.
	Binarization binarize.Method
	// EqualizeContrast enables global histogram equalization.
	EqualizeContrast bool
	// GaussianSigma enables Gaussian denoising when positive.
	GaussianSigma float64
	// BilateralFilter enables bilateral denoising; it takes precedence over
	// GaussianSigma when both are set.
	BilateralFilter bool
	// Morphology selects the morphological operation.
	Morphology morphology.Op
	// CorrectSkew enables deskewing with SkewMethod.
	CorrectSkew bool
	// SkewMethod selects the deskewing algorithm.
	SkewMethod geometry.Method
	// RemoveBorders enables projection-profile border cropping.
	RemoveBorders bool
	// AdaptiveMode derives parameter overrides from measured image quality
	// before running the pipeline.
	AdaptiveMode bool
}

// DefaultParams returns the preset used for screen captures: mild contrast
// and sharpness boosts, light Gaussian denoising, equalization, projection
// deskew, border removal, Otsu binarization, and adaptive tuning on top.
func DefaultParams() Params {
	return Params{
		Contrast:         1.3,
		Brightness:       0,
		Sharpness:        1.2,
		Binarization:     binarize.Otsu,
		EqualizeContrast: true,
		GaussianSigma:    0.5,
		BilateralFilter:  false,
		Morphology:       morphology.None,
		CorrectSkew:      true,
		SkewMethod:       geometry.Projection,
		RemoveBorders:    true,
		AdaptiveMode:     true,
	}
}
