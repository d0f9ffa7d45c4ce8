package pipeline

import (
	"context"
	"time"

	"github.com/wudi/ocrkit/binarize"
	"github.com/wudi/ocrkit/morphology"
	"github.com/wudi/ocrkit/observability"
	"github.com/wudi/ocrkit/quality"
	"github.com/wudi/ocrkit/raster"
)

// AdaptiveThresholds holds the decision boundaries used to derive parameter
// overrides from quality metrics. The defaults are empirically chosen; they
// are exposed as configuration rather than baked in because no derivation for
// them is documented.
type AdaptiveThresholds struct {
	// BlurSevere and BlurModerate split blur scores into severe (<Severe),
	// moderate (<Moderate), and sharp.
	BlurSevere   float64
	BlurModerate float64
	// ContrastLow and ContrastModerate split contrast scores likewise.
	ContrastLow      float64
	ContrastModerate float64
	// NoiseHigh and NoiseModerate split noise levels; note these gate from
	// above (noise > threshold).
	NoiseHigh     float64
	NoiseModerate float64
	// BrightnessDark and BrightnessBright bound acceptable mean brightness.
	BrightnessDark   float64
	BrightnessBright float64
	// IlluminationLow and IlluminationHigh bound the range outside which the
	// illumination is considered uneven and Sauvola binarization is forced.
	IlluminationLow  float64
	IlluminationHigh float64
}

// DefaultAdaptiveThresholds returns the historical defaults.
func DefaultAdaptiveThresholds() AdaptiveThresholds {
	return AdaptiveThresholds{
		BlurSevere:       30,
		BlurModerate:     50,
		ContrastLow:      40,
		ContrastModerate: 60,
		NoiseHigh:        20,
		NoiseModerate:    12,
		BrightnessDark:   80,
		BrightnessBright: 200,
		IlluminationLow:  100,
		IlluminationHigh: 180,
	}
}

// AdaptivePreprocess assesses the pre-pipeline buffer once, derives an
// override copy of the parameters, and runs the standard chain with the
// adaptive flag forced off. The call depth is therefore bounded at two
// regardless of input.
func (p *Pipeline) AdaptivePreprocess(ctx context.Context, buf *raster.Buffer, params Params) (*Result, error) {
	start := time.Now()
	metrics, err := quality.Assess(buf)
	if err != nil {
		return nil, &StageError{Stage: StageAssess, Err: err}
	}
	p.log.Debug("quality assessed",
		observability.Float64(observability.MetricQualityBlur, metrics.BlurScore),
		observability.Float64(observability.MetricQualityContrast, metrics.ContrastScore),
		observability.Float64(observability.MetricQualityNoise, metrics.NoiseLevel),
		observability.Float64(observability.MetricQualityBrightness, metrics.BrightnessLevel),
		observability.DurationMS(observability.MetricAssessTime, time.Since(start).Milliseconds()),
	)

	derived := p.Derive(params, metrics)

	if p.rule != nil {
		if err := p.rule.Apply(ctx, metrics, &derived); err != nil {
			return nil, &StageError{Stage: StageTuningRule, Err: err}
		}
		// Rules may not re-enable recursion.
		derived.AdaptiveMode = false
	}

	out, err := p.run(ctx, buf, derived)
	if err != nil {
		return nil, err
	}
	return &Result{Buffer: out, Quality: &metrics}, nil
}

// Derive applies the adaptive override rules to a copy of params and returns
// it with AdaptiveMode forced off.
func (p *Pipeline) Derive(params Params, m quality.Metrics) Params {
	t := p.thresholds
	derived := params
	derived.AdaptiveMode = false

	switch {
	case m.BlurScore < t.BlurSevere:
		derived.Sharpness = 2.0
		p.log.Debug("adaptive: severe blur", observability.Float64("sharpness", derived.Sharpness))
	case m.BlurScore < t.BlurModerate:
		derived.Sharpness = 1.5
		p.log.Debug("adaptive: moderate blur", observability.Float64("sharpness", derived.Sharpness))
	}

	switch {
	case m.ContrastScore < t.ContrastLow:
		derived.EqualizeContrast = true
		derived.Contrast = 1.5
		p.log.Debug("adaptive: low contrast", observability.Float64("contrast", derived.Contrast))
	case m.ContrastScore < t.ContrastModerate:
		derived.Contrast = 1.3
		p.log.Debug("adaptive: moderate contrast", observability.Float64("contrast", derived.Contrast))
	}

	switch {
	case m.NoiseLevel > t.NoiseHigh:
		derived.BilateralFilter = true
		derived.Morphology = morphology.Opening
		p.log.Debug("adaptive: high noise")
	case m.NoiseLevel > t.NoiseModerate:
		derived.GaussianSigma = 1.0
		p.log.Debug("adaptive: moderate noise", observability.Float64("sigma", derived.GaussianSigma))
	}

	switch {
	case m.BrightnessLevel < t.BrightnessDark:
		derived.Brightness += 0.2
		p.log.Debug("adaptive: dark image", observability.Float64("brightness", derived.Brightness))
	case m.BrightnessLevel > t.BrightnessBright:
		derived.Brightness -= 0.1
		p.log.Debug("adaptive: bright image", observability.Float64("brightness", derived.Brightness))
	}

	if m.BrightnessLevel < t.IlluminationLow || m.BrightnessLevel > t.IlluminationHigh {
		if derived.Binarization != binarize.None {
			derived.Binarization = binarize.Sauvola
			p.log.Debug("adaptive: uneven illumination, forcing sauvola")
		}
	} else if derived.Binarization == binarize.None {
		derived.Binarization = binarize.Otsu
		p.log.Debug("adaptive: defaulting to otsu")
	}

	return derived
}
