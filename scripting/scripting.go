// Package scripting lets callers program the adaptive-mode parameter
// derivation with a JavaScript rule instead of the built-in thresholds. A
// TuningScript runs after the built-in rules: it sees the measured quality
// metrics and the derived parameters and returns an object whose fields
// override them. Scripts are evaluated with goja and honor context
// cancellation through the runtime interrupt.
package scripting

import (
	"context"
	"fmt"

	"github.com/dop251/goja"

	"github.com/wudi/ocrkit/binarize"
	"github.com/wudi/ocrkit/geometry"
	"github.com/wudi/ocrkit/morphology"
	"github.com/wudi/ocrkit/pipeline"
	"github.com/wudi/ocrkit/quality"
)

// TuningScript implements pipeline.TuningRule with a JavaScript source. The
// script's completion value, if it is an object, is applied as parameter
// overrides; any other completion value leaves the parameters untouched.
//
// Globals available to the script:
//
//	quality: {blurScore, contrastScore, noiseLevel, brightnessLevel}
//	params:  {contrast, brightness, sharpness, binarization, equalizeContrast,
//	          gaussianSigma, bilateralFilter, morphology, correctSkew,
//	          skewMethod, removeBorders}
//
// A fresh runtime is created per invocation so a single script value is safe
// to share across concurrent pipeline runs.
type TuningScript struct {
	name string
	src  string
}

// NewTuningScript wraps a JavaScript source as a tuning rule.
func NewTuningScript(name, src string) *TuningScript {
	return &TuningScript{name: name, src: src}
}

func (s *TuningScript) Name() string { return s.name }

// Apply evaluates the script and merges its overrides into params.
func (s *TuningScript) Apply(ctx context.Context, m quality.Metrics, params *pipeline.Params) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	vm := goja.New()
	done := make(chan struct{})
	defer close(done)
	defer vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	vm.Set("quality", map[string]interface{}{
		"blurScore":       m.BlurScore,
		"contrastScore":   m.ContrastScore,
		"noiseLevel":      m.NoiseLevel,
		"brightnessLevel": m.BrightnessLevel,
	})
	vm.Set("params", paramsObject(*params))

	val, err := vm.RunString(s.src)
	if err != nil {
		if interrupted, ok := err.(*goja.InterruptedError); ok {
			if cause := interrupted.Unwrap(); cause != nil {
				return cause
			}
			return context.Canceled
		}
		return fmt.Errorf("scripting: run %s: %w", s.name, err)
	}

	overrides, ok := val.Export().(map[string]interface{})
	if !ok {
		return nil
	}
	return applyOverrides(params, overrides)
}

func paramsObject(p pipeline.Params) map[string]interface{} {
	return map[string]interface{}{
		"contrast":         p.Contrast,
		"brightness":       p.Brightness,
		"sharpness":        p.Sharpness,
		"binarization":     p.Binarization.String(),
		"equalizeContrast": p.EqualizeContrast,
		"gaussianSigma":    p.GaussianSigma,
		"bilateralFilter":  p.BilateralFilter,
		"morphology":       p.Morphology.String(),
		"correctSkew":      p.CorrectSkew,
		"skewMethod":       p.SkewMethod.String(),
		"removeBorders":    p.RemoveBorders,
	}
}

func applyOverrides(p *pipeline.Params, overrides map[string]interface{}) error {
	for key, raw := range overrides {
		switch key {
		case "contrast":
			v, err := toFloat(key, raw)
			if err != nil {
				return err
			}
			p.Contrast = v
		case "brightness":
			v, err := toFloat(key, raw)
			if err != nil {
				return err
			}
			p.Brightness = v
		case "sharpness":
			v, err := toFloat(key, raw)
			if err != nil {
				return err
			}
			p.Sharpness = v
		case "gaussianSigma":
			v, err := toFloat(key, raw)
			if err != nil {
				return err
			}
			p.GaussianSigma = v
		case "equalizeContrast":
			v, err := toBool(key, raw)
			if err != nil {
				return err
			}
			p.EqualizeContrast = v
		case "bilateralFilter":
			v, err := toBool(key, raw)
			if err != nil {
				return err
			}
			p.BilateralFilter = v
		case "correctSkew":
			v, err := toBool(key, raw)
			if err != nil {
				return err
			}
			p.CorrectSkew = v
		case "removeBorders":
			v, err := toBool(key, raw)
			if err != nil {
				return err
			}
			p.RemoveBorders = v
		case "binarization":
			v, err := toString(key, raw)
			if err != nil {
				return err
			}
			p.Binarization = binarize.ParseMethod(v)
		case "morphology":
			v, err := toString(key, raw)
			if err != nil {
				return err
			}
			p.Morphology = morphology.ParseOp(v)
		case "skewMethod":
			v, err := toString(key, raw)
			if err != nil {
				return err
			}
			p.SkewMethod = geometry.ParseMethod(v)
		default:
			return fmt.Errorf("scripting: unknown override %q", key)
		}
	}
	return nil
}

func toFloat(key string, raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("scripting: override %q: expected number, got %T", key, raw)
}

func toBool(key string, raw interface{}) (bool, error) {
	if v, ok := raw.(bool); ok {
		return v, nil
	}
	return false, fmt.Errorf("scripting: override %q: expected boolean, got %T", key, raw)
}

func toString(key string, raw interface{}) (string, error) {
	if v, ok := raw.(string); ok {
		return v, nil
	}
	return "", fmt.Errorf("scripting: override %q: expected string, got %T", key, raw)
}
