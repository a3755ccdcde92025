package parsing

import "fmt"

// Stage names the step of model extraction that failed.
type Stage string

const (
	StageModel  Stage = "model"  // client construction or the generate call
	StageSchema Stage = "schema" // response did not match the résumé schema
	StageDecode Stage = "decode" // response was not decodable JSON
)

// ExtractionError reports a failed model extraction. Extract swallows these
// and falls back to empty data; they surface only from the lower-level
// helpers and from New.
type ExtractionError struct {
	Stage Stage
	Cause error
}

func (e *ExtractionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("resume extraction failed at %s stage", e.Stage)
	}
	return fmt.Sprintf("resume extraction failed at %s stage: %v", e.Stage, e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

func stageErr(stage Stage, cause error) error {
	return &ExtractionError{Stage: stage, Cause: cause}
}
