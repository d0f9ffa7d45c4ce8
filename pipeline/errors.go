package pipeline

import "fmt"

// Stage names reported by StageError.
const (
	StageAssess       = "assess_quality"
	StageBorders      = "remove_borders"
	StageDeskew       = "deskew"
	StageDenoise      = "denoise"
	StageBrightness   = "brightness"
	StageContrast     = "contrast"
	StageSharpen      = "sharpen"
	StageEqualize     = "equalize"
	StageMorphology   = "morphology"
	StageBinarization = "binarization"
	StageTuningRule   = "tuning_rule"
)

// StageError reports which pipeline stage failed and why. The orchestrator
// stops at the first failing stage; there is no partial-result recovery and
// no retry inside the pipeline.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline: stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
