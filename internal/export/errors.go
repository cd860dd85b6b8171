// Package export writes a parsed plan as an XLSX workbook.
package export

import "fmt"

// Error represents a workbook export failure
type Error struct {
	Sheet   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	where := ""
	if e.Sheet != "" {
		where = fmt.Sprintf(" (sheet %q)", e.Sheet)
	}
	if e.Cause != nil {
		return fmt.Sprintf("export error%s: %s: %v", where, e.Message, e.Cause)
	}
	return fmt.Sprintf("export error%s: %s", where, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
