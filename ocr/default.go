package ocr

import (
	"context"
	"fmt"

	"github.com/wudi/ocrkit/raster"
)

var defaultEngine Engine = &noopEngine{}

// DefaultEngine returns the library's default OCR engine. Importing the
// tesseract subpackage replaces the initial noop engine with Tesseract.
func DefaultEngine() Engine {
	return defaultEngine
}

// SetDefaultEngine sets the library's default OCR engine.
func SetDefaultEngine(engine Engine) {
	defaultEngine = engine
}

// RecognizeBuffer encodes a preprocessed buffer and submits it to the engine.
// A nil engine selects the default.
func RecognizeBuffer(ctx context.Context, engine Engine, buf *raster.Buffer, opts ...InputOption) (Result, error) {
	if engine == nil {
		engine = DefaultEngine()
	}
	in, err := InputFromBuffer(buf, opts...)
	if err != nil {
		return Result{}, fmt.Errorf("build input: %w", err)
	}
	return engine.Recognize(ctx, in)
}

// RecognizeBuffers converts buffers to inputs and invokes the engine. If the
// engine supports batch operation, it is used; otherwise calls execute
// sequentially.
func RecognizeBuffers(ctx context.Context, engine Engine, bufs []*raster.Buffer, opts ...InputOption) ([]Result, error) {
	if engine == nil {
		engine = DefaultEngine()
	}
	inputs := make([]Input, 0, len(bufs))
	for i, buf := range bufs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		in, err := InputFromBuffer(buf, opts...)
		if err != nil {
			return nil, fmt.Errorf("build input %d: %w", i, err)
		}
		inputs = append(inputs, in)
	}
	if b, ok := engine.(BatchEngine); ok {
		return b.RecognizeBatch(ctx, inputs)
	}
	results := make([]Result, 0, len(inputs))
	for _, in := range inputs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		res, err := engine.Recognize(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("recognize %s: %w", in.ID, err)
		}
		results = append(results, res)
	}
	return results, nil
}

type noopEngine struct{}

func (n noopEngine) Name() string {
	return "noop"
}

func (n noopEngine) Recognize(ctx context.Context, input Input) (Result, error) {
	return Result{InputID: input.ID}, nil
}
