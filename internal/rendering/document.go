// Package rendering lays out parsed plans and body metrics as a paginated PDF report.
package rendering

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/jonathan/coach-report/internal/layout"
	"github.com/jonathan/coach-report/internal/types"
)

const (
	fontFamily = "Helvetica"

	styleRegular = ""
	styleBold    = "B"
	styleItalic  = "I"

	sizeBody    = 9.0
	sizeSmall   = 8.0
	sizeHeading = 11.0
	sizeBand    = 13.0

	lineHeight = 4.6
)

// Options describes one report document.
type Options struct {
	Geometry layout.PageGeometry
	Theme    Theme
	Title    string
	Client   string
	Date     time.Time
}

// Document is a PDF under construction. It is the layout Surface and
// Measurer for its own paginator. Not safe for concurrent use.
type Document struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	opts   Options
	pager  *layout.Paginator
	images int
}

// NewDocument starts an empty document. No page exists until the first block is placed.
func NewDocument(opts Options) (*Document, error) {
	g := opts.Geometry
	if err := g.Validate(); err != nil {
		return nil, &RenderError{Message: "invalid page geometry", Cause: err}
	}
	if opts.Theme == (Theme{}) {
		opts.Theme = DefaultTheme()
	}
	if opts.Date.IsZero() {
		opts.Date = time.Now()
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: g.WidthMM, Ht: g.HeightMM},
	})
	pdf.SetMargins(g.Left, g.Top, g.Right)
	pdf.SetAutoPageBreak(false, g.Bottom)
	pdf.SetCellMargin(1)
	pdf.SetTitle(opts.Title, true)
	pdf.SetSubject(opts.Client, true)
	pdf.SetCreator("coach-report", false)
	pdf.SetCreationDate(opts.Date)

	d := &Document{
		pdf:  pdf,
		tr:   pdf.UnicodeTranslatorFromDescriptor(""),
		opts: opts,
	}
	d.setFont(styleRegular, sizeBody)
	d.pager = layout.New(d, g, layout.Chrome{Header: d.drawHeader, Footer: d.drawFooter})
	return d, nil
}

// AddPage implements layout.Surface.
func (d *Document) AddPage() {
	d.pdf.AddPage()
}

// SplitText implements layout.Measurer in the current font.
func (d *Document) SplitText(text string, width float64) []string {
	return d.pdf.SplitText(EscapePDF(text), width)
}

// Pager returns the document's paginator.
func (d *Document) Pager() *layout.Paginator { return d.pager }

// Geometry returns the page geometry.
func (d *Document) Geometry() layout.PageGeometry { return d.opts.Geometry }

// Placements returns where every block was placed.
func (d *Document) Placements() []types.Placement { return d.pager.Placements() }

// Finish closes the last page and returns the page count.
func (d *Document) Finish() int {
	if d.pager.PageCount() == 0 {
		// a document always has at least one page with its chrome
		d.pager.KeepTogether(0)
	}
	return d.pager.Finish()
}

// Bytes serializes the document. Finish must have been called.
func (d *Document) Bytes() ([]byte, error) {
	if err := d.pdf.Error(); err != nil {
		return nil, &RenderError{Message: "pdf construction failed", Cause: err}
	}
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, &RenderError{Message: "pdf output failed", Cause: err}
	}
	return buf.Bytes(), nil
}

func (d *Document) drawHeader(page int) {
	g := d.opts.Geometry
	t := d.opts.Theme
	band := g.HeaderHeight - 4
	if band <= 0 {
		return
	}

	d.fill(t.Brand)
	d.pdf.Rect(0, g.Top, g.WidthMM, band, "F")

	d.setFont(styleBold, sizeBand)
	d.color(t.BrandText)
	d.pdf.SetXY(g.Left, g.Top)
	d.pdf.CellFormat(g.ContentWidth()*0.65, band, d.text(d.opts.Title), "", 0, "LM", false, 0, "")

	d.setFont(styleRegular, sizeBody)
	d.pdf.SetXY(g.Left+g.ContentWidth()*0.65, g.Top)
	d.pdf.CellFormat(g.ContentWidth()*0.35, band, d.text(d.opts.Client), "", 0, "RM", false, 0, "")
}

func (d *Document) drawFooter(page int) {
	g := d.opts.Geometry
	t := d.opts.Theme
	y := g.ContentBottom() + 3
	h := 5.0

	d.draw(t.Rule)
	d.pdf.SetLineWidth(0.2)
	d.pdf.Line(g.Left, y, g.WidthMM-g.Right, y)

	d.setFont(styleRegular, sizeSmall)
	d.color(t.Muted)
	d.pdf.SetXY(g.Left, y+1)
	d.pdf.CellFormat(g.ContentWidth(), h, fmt.Sprintf("Page %d", page), "", 0, "CM", false, 0, "")
	d.pdf.SetXY(g.Left, y+1)
	d.pdf.CellFormat(g.ContentWidth(), h, d.opts.Date.Format("2006-01-02"), "", 0, "RM", false, 0, "")
}

func (d *Document) text(s string) string { return d.tr(EscapePDF(s)) }

func (d *Document) setFont(style string, size float64) {
	d.pdf.SetFont(fontFamily, style, size)
}

func (d *Document) fill(c RGB)  { d.pdf.SetFillColor(c.R, c.G, c.B) }
func (d *Document) color(c RGB) { d.pdf.SetTextColor(c.R, c.G, c.B) }
func (d *Document) draw(c RGB)  { d.pdf.SetDrawColor(c.R, c.G, c.B) }
