package pipeline

import (
	"errors"
	"fmt"
)

// ErrRejected is returned when the operator answers no at the approval gate.
// It is a normal termination path, not an exception.
var ErrRejected = errors.New("aborted by user")

// ErrInterrupted is returned when the operator interrupts the process, most
// often during a blocking gate prompt.
var ErrInterrupted = errors.New("interrupted")

// ExtractionError reports that a stage's output did not yield the structured
// value the next stage needs. Empty distinguishes a stage that produced
// nothing from one whose output exists but could not be parsed.
type ExtractionError struct {
	Stage string
	Empty bool
	Cause error
}

func (e *ExtractionError) Error() string {
	if e.Empty {
		return fmt.Sprintf("%s stage produced no output", e.Stage)
	}
	return fmt.Sprintf("%s stage produced output but it is unparseable: %v", e.Stage, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
