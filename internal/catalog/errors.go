// Package catalog loads the read-only reference data used by the report pipeline:
// the exercise demonstration index and the training-method table.
package catalog

import "fmt"

// LoadError represents a failure reading or decoding catalog data
type LoadError struct {
	Source  string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("catalog load error (%s): %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("catalog load error (%s): %s", e.Source, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
