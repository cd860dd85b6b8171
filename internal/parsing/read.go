// Package parsing turns coach-authored plan text into structured meal and training plans.
package parsing

import (
	"io"
	"os"

	"github.com/jonathan/coach-report/internal/types"
)

// maxPlanBytes bounds a plan read from a file or stdin.
const maxPlanBytes = 4 << 20

// ReadText reads plan text from r, rejecting inputs over maxPlanBytes.
func ReadText(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxPlanBytes+1))
	if err != nil {
		return "", &InputError{Message: "failed to read plan text", Cause: err}
	}
	if len(data) > maxPlanBytes {
		return "", &InputError{Message: "plan text exceeds 4 MiB"}
	}
	return string(data), nil
}

// ReadTextFile reads plan text from path, or from stdin when path is "-".
func ReadTextFile(path string) (string, error) {
	if path == "-" {
		return ReadText(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", &InputError{Message: "failed to open plan file", Cause: err}
	}
	defer func() { _ = f.Close() }()
	return ReadText(f)
}

// ReadPlan reads and parses a plan in one step.
func ReadPlan(r io.Reader, opts Options) (*types.Plan, error) {
	text, err := ReadText(r)
	if err != nil {
		return nil, err
	}
	return ParsePlan(text, opts), nil
}
