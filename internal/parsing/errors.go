package parsing

import "fmt"

// InputError is returned when plan text cannot be read from its source.
type InputError struct {
	Message string
	Cause   error
}

func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("plan input error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("plan input error: %s", e.Message)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}
