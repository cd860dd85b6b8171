// Package preview renders a parsed plan for the screen: an HTML page and a
// terminal view. Both resolve videos and methods through the same views
// package as the printed report.
package preview

import (
	"github.com/jonathan/coach-report/internal/catalog"
	"github.com/jonathan/coach-report/internal/matching"
	"github.com/jonathan/coach-report/internal/types"
	"github.com/jonathan/coach-report/internal/views"
)

// Preview output formats.
const (
	FormatHTML = "html"
	FormatTerm = "term"
)

// Options describes the page around the plan.
type Options struct {
	Title  string
	Client string
	// Brand is the accent color as #RRGGBB; empty uses DefaultBrand.
	Brand string
}

// DefaultBrand matches the printed report's header band.
const DefaultBrand = "#1F4E79"

// Page is everything a preview shows.
type Page struct {
	Options
	PlanTitle  string
	Meals      []types.Meal
	Shopping   []string
	Blocks     []views.Block
	Paragraphs []types.Paragraph
}

// Build resolves plan for the screen surface. session may be shared with
// other previews of the same render; methods may be nil.
func Build(plan *types.Plan, session *matching.Session, methods *catalog.Methods, opts Options) Page {
	if opts.Brand == "" {
		opts.Brand = DefaultBrand
	}
	page := Page{Options: opts}
	if plan == nil {
		return page
	}
	page.PlanTitle = plan.Title
	page.Meals = plan.Meals
	page.Shopping = plan.ShoppingList
	page.Paragraphs = plan.Paragraphs

	var videos views.VideoLookup
	if session != nil {
		videos = views.SessionLookup(session, matching.SurfaceScreen)
	}
	page.Blocks = views.DescribePlan(plan, videos, methods)
	return page
}

// Empty reports whether the page has no plan content.
func (p Page) Empty() bool {
	return len(p.Meals) == 0 && len(p.Blocks) == 0 && len(p.Paragraphs) == 0 && len(p.Shopping) == 0
}
