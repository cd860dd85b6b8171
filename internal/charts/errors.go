package charts

import "fmt"

// ChartError is returned when a chart's inputs cannot be drawn or its raster cannot be encoded.
type ChartError struct {
	Chart   string
	Message string
	Cause   error
}

func (e *ChartError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s chart: %s: %v", e.Chart, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s chart: %s", e.Chart, e.Message)
}

func (e *ChartError) Unwrap() error {
	return e.Cause
}
