// Package preview renders a parsed plan for the screen: an HTML page and a
// terminal view. Both resolve videos and methods through the same views
// package as the printed report.
package preview

import "fmt"

// Error represents a preview rendering failure
type Error struct {
	Format  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s preview error: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s preview error: %s", e.Format, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
