package scripting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wudi/ocrkit/binarize"
	"github.com/wudi/ocrkit/morphology"
	"github.com/wudi/ocrkit/pipeline"
	"github.com/wudi/ocrkit/quality"
)

func TestTuningScriptOverrides(t *testing.T) {
	script := NewTuningScript("overrides", `({sharpness: 1.5, binarization: "sauvola", bilateralFilter: true})`)
	params := pipeline.DefaultParams()

	err := script.Apply(context.Background(), quality.Metrics{}, &params)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if params.Sharpness != 1.5 {
		t.Errorf("Sharpness = %v, want 1.5", params.Sharpness)
	}
	if params.Binarization != binarize.Sauvola {
		t.Errorf("Binarization = %v, want Sauvola", params.Binarization)
	}
	if !params.BilateralFilter {
		t.Error("BilateralFilter should be enabled")
	}
	// Untouched fields keep their values.
	if params.Contrast != 1.3 {
		t.Errorf("Contrast = %v, want 1.3 untouched", params.Contrast)
	}
}

func TestTuningScriptReadsQualityAndParams(t *testing.T) {
	script := NewTuningScript("conditional", `
		(function() {
			if (quality.noiseLevel > 30 && params.sharpness > 1.0) {
				return {sharpness: 1.0, morphology: "opening"};
			}
			return {};
		})()
	`)

	params := pipeline.DefaultParams()
	err := script.Apply(context.Background(), quality.Metrics{NoiseLevel: 45}, &params)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if params.Sharpness != 1.0 {
		t.Errorf("Sharpness = %v, want capped to 1.0", params.Sharpness)
	}
	if params.Morphology != morphology.Opening {
		t.Errorf("Morphology = %v, want Opening", params.Morphology)
	}

	quiet := pipeline.DefaultParams()
	if err := script.Apply(context.Background(), quality.Metrics{NoiseLevel: 5}, &quiet); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if quiet.Sharpness != 1.2 {
		t.Errorf("Sharpness = %v, want 1.2 untouched for quiet capture", quiet.Sharpness)
	}
}

func TestTuningScriptNonObjectResult(t *testing.T) {
	for _, src := range []string{`42`, `"text"`, `true`, `null`, `undefined`} {
		script := NewTuningScript("scalar", src)
		params := pipeline.DefaultParams()
		before := params
		if err := script.Apply(context.Background(), quality.Metrics{}, &params); err != nil {
			t.Fatalf("Apply(%q) failed: %v", src, err)
		}
		if params != before {
			t.Errorf("Apply(%q) changed params", src)
		}
	}
}

func TestTuningScriptUnknownKey(t *testing.T) {
	script := NewTuningScript("unknown", `({resolution: 300})`)
	params := pipeline.DefaultParams()
	if err := script.Apply(context.Background(), quality.Metrics{}, &params); err == nil {
		t.Fatal("expected error for unknown override key, got nil")
	}
}

func TestTuningScriptTypeMismatch(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"string for number", `({contrast: "high"})`},
		{"number for boolean", `({bilateralFilter: 1})`},
		{"boolean for string", `({binarization: true})`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := NewTuningScript("mismatch", tt.src)
			params := pipeline.DefaultParams()
			if err := script.Apply(context.Background(), quality.Metrics{}, &params); err == nil {
				t.Fatal("expected type mismatch error, got nil")
			}
		})
	}
}

func TestTuningScriptSyntaxError(t *testing.T) {
	script := NewTuningScript("broken", `({`)
	params := pipeline.DefaultParams()
	if err := script.Apply(context.Background(), quality.Metrics{}, &params); err == nil {
		t.Fatal("expected syntax error, got nil")
	}
}

func TestTuningScriptContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	script := NewTuningScript("spin", `for (;;) {}`)
	params := pipeline.DefaultParams()

	start := time.Now()
	err := script.Apply(ctx, quality.Metrics{}, &params)
	if err == nil {
		t.Fatal("expected cancellation error, got nil")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("interrupt took %v, runtime did not stop promptly", elapsed)
	}
}

func TestTuningScriptCancelledBeforeRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	script := NewTuningScript("never", `({sharpness: 9})`)
	params := pipeline.DefaultParams()
	err := script.Apply(ctx, quality.Metrics{}, &params)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if params.Sharpness == 9 {
		t.Error("cancelled script must not apply overrides")
	}
}

func TestTuningScriptName(t *testing.T) {
	script := NewTuningScript("my-rule", `({})`)
	if script.Name() != "my-rule" {
		t.Errorf("Name() = %q, want %q", script.Name(), "my-rule")
	}
}
