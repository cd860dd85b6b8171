// Package validation checks finished reports: block placements against the page
// geometry and the page count of the serialized PDF.
package validation

import (
	"fmt"

	"github.com/jonathan/coach-report/internal/layout"
	"github.com/jonathan/coach-report/internal/types"
)

// Violation types.
const (
	ViolationOverflow      = "page_overflow"
	ViolationAboveContent  = "above_content"
	ViolationPageOrder     = "page_order"
	ViolationPageCount     = "page_count"
	ViolationEmptyDocument = "empty_document"
)

// Severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// epsilon absorbs float rounding in cursor arithmetic.
const epsilon = 1e-6

// CheckPlacements verifies that every placed block lies inside the content
// area of its page and that pages are visited in order.
func CheckPlacements(placements []types.Placement, g layout.PageGeometry) *types.Violations {
	violations := &types.Violations{Violations: []types.Violation{}}
	bottom := g.ContentBottom()
	top := g.ContentTop()

	lastPage := 0
	for _, p := range placements {
		page, y := p.Page, p.Y
		if end := p.Y + p.Height; end > bottom+epsilon {
			violations.Violations = append(violations.Violations, types.Violation{
				Type:     ViolationOverflow,
				Severity: SeverityError,
				Details:  fmt.Sprintf("%s block ends at %.2fmm, below the content bound %.2fmm", p.Kind, end, bottom),
				Page:     &page,
				Y:        &y,
				Block:    p.Kind,
			})
		}
		if p.Y < top-epsilon {
			violations.Violations = append(violations.Violations, types.Violation{
				Type:     ViolationAboveContent,
				Severity: SeverityError,
				Details:  fmt.Sprintf("%s block starts at %.2fmm, above the content top %.2fmm", p.Kind, p.Y, top),
				Page:     &page,
				Y:        &y,
				Block:    p.Kind,
			})
		}
		if p.Page < lastPage {
			violations.Violations = append(violations.Violations, types.Violation{
				Type:     ViolationPageOrder,
				Severity: SeverityError,
				Details:  fmt.Sprintf("%s block placed on page %d after page %d", p.Kind, p.Page+1, lastPage+1),
				Page:     &page,
				Block:    p.Kind,
			})
		}
		lastPage = max(lastPage, p.Page)
	}
	return violations
}

// CheckPageCount compares the page count the paginator reported with the pages
// actually present in the serialized PDF.
func CheckPageCount(content []byte, expected int) *types.Violations {
	violations := &types.Violations{Violations: []types.Violation{}}
	got, err := CountPDFPagesBytes(content)
	if err != nil {
		violations.Violations = append(violations.Violations, types.Violation{
			Type:     ViolationEmptyDocument,
			Severity: SeverityError,
			Details:  fmt.Sprintf("Could not determine page count: %v", err),
		})
		return violations
	}
	if got != expected {
		violations.Violations = append(violations.Violations, types.Violation{
			Type:     ViolationPageCount,
			Severity: SeverityWarning,
			Details:  fmt.Sprintf("Report has %d pages, paginator produced %d", got, expected),
		})
	}
	return violations
}

// Merge appends the violations of others to v.
func Merge(v *types.Violations, others ...*types.Violations) *types.Violations {
	if v == nil {
		v = &types.Violations{Violations: []types.Violation{}}
	}
	for _, o := range others {
		if o != nil {
			v.Violations = append(v.Violations, o.Violations...)
		}
	}
	return v
}
