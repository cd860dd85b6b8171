// Package pipeline assembles finished reports: it parses plan text, resolves
// exercise videos, lays the report out and serializes it.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/jonathan/coach-report/internal/types"
)

// ErrNothingToGenerate is returned before parsing when there is no plan text
// (or, for an assessment, no body data) to render.
var ErrNothingToGenerate = errors.New("nothing to generate")

// ErrGenerationInFlight is returned when a generation for the same input is
// still running.
var ErrGenerationInFlight = errors.New("generation already in flight for this input")

// SerializationError means the document could not be written out. No
// artifact accompanies it; the caller may retry.
type SerializationError struct {
	Message string
	Cause   error
}

func (e *SerializationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("serialization error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("serialization error: %s", e.Message)
}

func (e *SerializationError) Unwrap() error {
	return e.Cause
}

// Retryable reports that serialization failures may succeed on a new attempt.
func (e *SerializationError) Retryable() bool {
	return true
}

// LayoutError means composed blocks were placed outside the content area.
type LayoutError struct {
	Violations *types.Violations
}

func (e *LayoutError) Error() string {
	n := 0
	first := ""
	if e.Violations != nil {
		n = len(e.Violations.Violations)
		if n > 0 {
			first = e.Violations.Violations[0].Details
		}
	}
	return fmt.Sprintf("layout error: %d placement violation(s): %s", n, first)
}

// InputError reports an unusable request, such as an unknown report kind or
// an invalid profile.
type InputError struct {
	Message string
	Cause   error
}

func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("input error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("input error: %s", e.Message)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}
