// Package pipeline orchestrates the preprocessing stages in a fixed order:
// border removal, deskew, denoise, brightness, contrast, sharpen, histogram
// equalization, morphology, and finally binarization. Every stage is a pure
// transform from one owned buffer to a new one, so distinct invocations share
// no mutable state and may run concurrently without synchronization.
package pipeline

import (
	"context"
	"time"

	"github.com/wudi/ocrkit/adjust"
	"github.com/wudi/ocrkit/binarize"
	"github.com/wudi/ocrkit/enhance"
	"github.com/wudi/ocrkit/filter"
	"github.com/wudi/ocrkit/geometry"
	"github.com/wudi/ocrkit/morphology"
	"github.com/wudi/ocrkit/observability"
	"github.com/wudi/ocrkit/quality"
	"github.com/wudi/ocrkit/raster"
)

// Result carries the processed buffer plus the quality metrics measured on
// the pre-pipeline input when adaptive mode ran.
type Result struct {
	Buffer  *raster.Buffer
	Quality *quality.Metrics
}

// TuningRule adjusts derived parameters after the built-in adaptive rules and
// before the inner pipeline run. Implementations must treat metrics as
// read-only; scripting.TuningScript is the goja-backed implementation.
type TuningRule interface {
	Name() string
	Apply(ctx context.Context, metrics quality.Metrics, params *Params) error
}

// Pipeline executes preprocessing runs with shared, read-only configuration.
// The zero configuration (nop logger, nop tracer, default thresholds) is what
// New returns without options.
type Pipeline struct {
	log        observability.Logger
	tracer     observability.Tracer
	thresholds AdaptiveThresholds
	rule       TuningRule
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger injects a structured logger.
func WithLogger(l observability.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithTracer injects a tracer producing one span per run and per stage.
func WithTracer(t observability.Tracer) Option {
	return func(p *Pipeline) { p.tracer = t }
}

// WithAdaptiveThresholds overrides the adaptive-mode decision thresholds.
func WithAdaptiveThresholds(t AdaptiveThresholds) Option {
	return func(p *Pipeline) { p.thresholds = t }
}

// WithTuningRule installs a rule that may override derived parameters in
// adaptive mode.
func WithTuningRule(r TuningRule) Option {
	return func(p *Pipeline) { p.rule = r }
}

// New constructs a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		log:        observability.NopLogger{},
		tracer:     observability.NopTracer(),
		thresholds: DefaultAdaptiveThresholds(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Preprocess runs the stage chain on the buffer. When params.AdaptiveMode is
// set it defers to AdaptivePreprocess, which derives overrides and runs the
// chain exactly once more with the adaptive flag forced off, bounding the
// call depth at two.
func (p *Pipeline) Preprocess(ctx context.Context, buf *raster.Buffer, params Params) (*Result, error) {
	if params.AdaptiveMode {
		return p.AdaptivePreprocess(ctx, buf, params)
	}
	out, err := p.run(ctx, buf, params)
	if err != nil {
		return nil, err
	}
	return &Result{Buffer: out}, nil
}

// run executes the fixed stage order. Disabled stages pass the buffer through
// untouched; the first failing stage aborts the chain.
func (p *Pipeline) run(ctx context.Context, buf *raster.Buffer, params Params) (*raster.Buffer, error) {
	ctx, span := p.tracer.StartSpan(ctx, "pipeline.preprocess")
	defer span.Finish()
	start := time.Now()

	out := buf

	if params.RemoveBorders {
		out = p.timed(ctx, StageBorders, out, func(b *raster.Buffer) *raster.Buffer {
			return geometry.RemoveBorders(b)
		})
	}

	if params.CorrectSkew {
		method := params.SkewMethod
		out = p.timed(ctx, StageDeskew, out, func(b *raster.Buffer) *raster.Buffer {
			return geometry.Deskew(b, method)
		})
	}

	if params.BilateralFilter {
		out = p.timed(ctx, StageDenoise, out, filter.Bilateral)
	} else if params.GaussianSigma > 0 {
		sigma := params.GaussianSigma
		out = p.timed(ctx, StageDenoise, out, func(b *raster.Buffer) *raster.Buffer {
			return filter.Gaussian(b, sigma)
		})
	}

	if params.Brightness != 0 {
		amount := params.Brightness
		out = p.timed(ctx, StageBrightness, out, func(b *raster.Buffer) *raster.Buffer {
			return adjust.Brightness(b, amount)
		})
	}

	if params.Contrast != 1.0 {
		factor := params.Contrast
		out = p.timed(ctx, StageContrast, out, func(b *raster.Buffer) *raster.Buffer {
			return adjust.Contrast(b, factor)
		})
	}

	if params.Sharpness > 1.0 {
		sharpened, err := adjust.Sharpen(out, params.Sharpness)
		if err != nil {
			span.SetError(err)
			return nil, &StageError{Stage: StageSharpen, Err: err}
		}
		out = sharpened
	}

	if params.EqualizeContrast {
		out = p.timed(ctx, StageEqualize, out, enhance.EqualizeHistogram)
	}

	if params.Morphology != morphology.None {
		result, err := morphology.Apply(out, params.Morphology)
		if err != nil {
			span.SetError(err)
			return nil, &StageError{Stage: StageMorphology, Err: err}
		}
		out = result
	}

	// Binarization is terminal: no stage runs after it.
	if params.Binarization != binarize.None {
		method := params.Binarization
		out = p.timed(ctx, StageBinarization, out, func(b *raster.Buffer) *raster.Buffer {
			return binarize.Apply(b, method)
		})
	}

	p.log.Debug("preprocess complete",
		observability.Int("width", out.Width()),
		observability.Int("height", out.Height()),
		observability.DurationMS(observability.MetricPreprocessTime, time.Since(start).Milliseconds()),
	)
	return out, nil
}

// timed wraps an infallible stage with a span and a duration log line.
func (p *Pipeline) timed(ctx context.Context, stage string, buf *raster.Buffer, f func(*raster.Buffer) *raster.Buffer) *raster.Buffer {
	_, span := p.tracer.StartSpan(ctx, "pipeline."+stage)
	defer span.Finish()
	start := time.Now()
	out := f(buf)
	p.log.Debug("stage complete",
		observability.String("stage", stage),
		observability.DurationMS(observability.MetricStageTime, time.Since(start).Milliseconds()),
	)
	return out
}

// Preprocess runs the stage chain with a default Pipeline.
func Preprocess(ctx context.Context, buf *raster.Buffer, params Params) (*Result, error) {
	return New().Preprocess(ctx, buf, params)
}

// AdaptivePreprocess derives parameters from measured quality and runs the
// stage chain with a default Pipeline.
func AdaptivePreprocess(ctx context.Context, buf *raster.Buffer, params Params) (*Result, error) {
	return New().AdaptivePreprocess(ctx, buf, params)
}

// AssessQuality measures the buffer without running any stage.
func AssessQuality(buf *raster.Buffer) (quality.Metrics, error) {
	return quality.Assess(buf)
}
