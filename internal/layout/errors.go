package layout

import "fmt"

// OverflowError is returned when a single block is taller than a page's
// content area and can never be placed without crossing the bottom bound.
type OverflowError struct {
	Kind      string
	Height    float64
	Available float64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("layout overflow: %s block of %.1fmm exceeds %.1fmm of page content area", e.Kind, e.Height, e.Available)
}
