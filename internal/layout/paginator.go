// Package layout places measured blocks on fixed-size pages, breaking pages
// and repeating page chrome so that nothing is drawn below the bottom margin.
package layout

import (
	"github.com/jonathan/coach-report/internal/types"
)

// Cursor is the paginator's position. PageIndex is zero-based; Y is in
// millimeters from the top edge of the page.
type Cursor struct {
	PageIndex int
	Y         float64
}

// Surface is the page-producing side of a drawing target.
type Surface interface {
	AddPage()
}

// Chrome draws the parts repeated on every page. page is one-based.
type Chrome struct {
	Header func(page int)
	Footer func(page int)
}

// Block is a measured unit of content. Draw receives the Y at which the
// block's top edge sits and must not draw below y+Height.
type Block struct {
	Kind   string
	Height float64
	Draw   func(y float64)
}

// Paginator owns the layout cursor for one render. It is not safe for
// concurrent use.
type Paginator struct {
	surface Surface
	geom    PageGeometry
	chrome  Chrome

	cursor     Cursor
	started    bool
	finished   bool
	footerDone map[int]bool

	repeat     *Block
	placements []types.Placement
}

// New returns a paginator that has not yet started a page.
func New(surface Surface, geom PageGeometry, chrome Chrome) *Paginator {
	return &Paginator{
		surface:    surface,
		geom:       geom,
		chrome:     chrome,
		footerDone: make(map[int]bool),
	}
}

// Geometry returns the page geometry.
func (p *Paginator) Geometry() PageGeometry { return p.geom }

// Cursor returns the current position.
func (p *Paginator) Cursor() Cursor { return p.cursor }

// Bound returns the lowest Y any block may reach.
func (p *Paginator) Bound() float64 { return p.geom.ContentBottom() }

// Remaining returns the space left on the current page.
func (p *Paginator) Remaining() float64 {
	if !p.started {
		return p.geom.ContentHeight()
	}
	return p.Bound() - p.cursor.Y
}

// PageCount returns the number of pages started so far.
func (p *Paginator) PageCount() int {
	if !p.started {
		return 0
	}
	return p.cursor.PageIndex + 1
}

// Placements returns the record of every block placed, in order.
func (p *Paginator) Placements() []types.Placement {
	out := make([]types.Placement, len(p.placements))
	copy(out, p.placements)
	return out
}

// Place draws b at the cursor, breaking to a new page first if b does not fit.
func (p *Paginator) Place(b Block) error {
	if err := p.fits(b); err != nil {
		return err
	}
	p.ensureStarted()

	if p.cursor.Y+b.Height > p.Bound() {
		p.breakPage()
	}
	p.draw(b)
	return nil
}

// KeepTogether breaks the page unless height fits in the remaining space.
// Use it before a title so the title is not stranded at the bottom of a page.
func (p *Paginator) KeepTogether(height float64) {
	p.ensureStarted()
	if p.cursor.Y+height > p.Bound() && p.cursor.Y > p.geom.ContentTop() {
		p.breakPage()
	}
}

// Space advances the cursor by gap, stopping at the bound. A gap is never
// carried over to the next page, and never opens one by itself.
func (p *Paginator) Space(gap float64) {
	p.ensureStarted()
	p.cursor.Y = min(p.cursor.Y+gap, p.Bound())
}

// BeginTable places a column header and repeats it at the top of every page
// until EndTable.
func (p *Paginator) BeginTable(header Block) error {
	if err := p.Place(header); err != nil {
		return err
	}
	h := header
	p.repeat = &h
	return nil
}

// EndTable stops repeating the column header.
func (p *Paginator) EndTable() {
	p.repeat = nil
}

// Finish writes the footer of the last page and returns the page count.
// It is safe to call more than once.
func (p *Paginator) Finish() int {
	if p.started && !p.finished {
		p.footer()
		p.finished = true
	}
	return p.PageCount()
}

func (p *Paginator) fits(b Block) error {
	available := p.geom.ContentHeight()
	if p.repeat != nil {
		available -= p.repeat.Height
	}
	if b.Height > available || b.Height < 0 {
		return &OverflowError{Kind: b.Kind, Height: b.Height, Available: available}
	}
	return nil
}

func (p *Paginator) ensureStarted() {
	if p.started {
		return
	}
	p.started = true
	p.startPage()
}

func (p *Paginator) startPage() {
	p.surface.AddPage()
	p.cursor.Y = p.geom.ContentTop()
	if p.chrome.Header != nil {
		p.chrome.Header(p.cursor.PageIndex + 1)
	}
}

// breakPage ends the current page with its footer and opens the next one,
// redrawing the repeated table header if a table is open.
func (p *Paginator) breakPage() {
	p.footer()
	p.cursor.PageIndex++
	p.startPage()
	if p.repeat != nil {
		p.draw(*p.repeat)
	}
}

func (p *Paginator) footer() {
	page := p.cursor.PageIndex + 1
	if p.footerDone[page] {
		return
	}
	p.footerDone[page] = true
	if p.chrome.Footer != nil {
		p.chrome.Footer(page)
	}
}

func (p *Paginator) draw(b Block) {
	if b.Draw != nil {
		b.Draw(p.cursor.Y)
	}
	p.placements = append(p.placements, types.Placement{
		Page:   p.cursor.PageIndex + 1,
		Y:      p.cursor.Y,
		Height: b.Height,
		Kind:   b.Kind,
	})
	p.cursor.Y += b.Height
}
