// Package types provides type definitions for structured data used throughout the coach-report system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Violation represents a single layout validation failure
type Violation struct {
	Type     string   `json:"type"`
	Severity string   `json:"severity"`
	Details  string   `json:"details"`
	Page     *int     `json:"page,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Block    string   `json:"block,omitempty"`
}

// Violations represents a collection of validation failures
type Violations struct {
	Violations []Violation `json:"violations"`
}

// HasErrors reports whether any violation has error severity.
func (v *Violations) HasErrors() bool {
	if v == nil {
		return false
	}
	for _, violation := range v.Violations {
		if violation.Severity == "error" {
			return true
		}
	}
	return false
}
