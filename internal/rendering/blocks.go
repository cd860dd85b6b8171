// Package rendering lays out parsed plans and body metrics as a paginated PDF report.
package rendering

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/jonathan/coach-report/internal/charts"
	"github.com/jonathan/coach-report/internal/layout"
)

// Block kinds recorded in the placement log.
const (
	KindTitle       = "title"
	KindTableHeader = "table-header"
	KindRow         = "row"
	KindCallout     = "callout"
	KindSubstitute  = "substitutions"
	KindParagraph   = "paragraph"
	KindHeading     = "heading"
	KindChart       = "chart"
)

const (
	gapSmall   = 2.0
	gapSection = 5.0

	rowPad      = 1.2
	maxRowLines = 12

	ellipsis = "..."
)

var calloutPad = layout.Padding{Top: 2.5, Bottom: 2.5, Left: 5, Right: 3}

// Column is one table column. Width is a fraction of the content width.
type Column struct {
	Title string
	Width float64
	Align string
}

// Cell is one table cell. A non-empty Link makes the text clickable.
type Cell struct {
	Text string
	Link string
}

// TitleBar is a filled bar with a one-line heading. Level 1 uses the brand
// color, level 2 a light tint.
func (d *Document) TitleBar(text string, level int) layout.Block {
	g := d.opts.Geometry
	t := d.opts.Theme
	h, size, fill, ink := 9.0, sizeHeading, t.Brand, t.BrandText
	if level > 1 {
		h, size, fill, ink = 7.0, sizeBody+0.5, t.Tint, t.Ink
	}
	d.setFont(styleBold, size)
	line := d.fitLine(text, g.ContentWidth()-4)
	return layout.Block{
		Kind:   KindTitle,
		Height: h,
		Draw: func(y float64) {
			d.fill(fill)
			d.pdf.Rect(g.Left, y, g.ContentWidth(), h, "F")
			d.setFont(styleBold, size)
			d.color(ink)
			d.pdf.SetXY(g.Left+2, y)
			d.pdf.CellFormat(g.ContentWidth()-4, h, d.tr(line), "", 0, "LM", false, 0, "")
		},
	}
}

// TableHeader is the column header row of a table.
func (d *Document) TableHeader(cols []Column) layout.Block {
	g := d.opts.Geometry
	t := d.opts.Theme
	h := 6.0
	return layout.Block{
		Kind:   KindTableHeader,
		Height: h,
		Draw: func(y float64) {
			d.fill(t.Panel)
			d.pdf.Rect(g.Left, y, g.ContentWidth(), h, "F")
			d.setFont(styleBold, sizeSmall)
			d.color(t.Muted)
			x := g.Left
			for _, c := range cols {
				w := c.Width * g.ContentWidth()
				d.pdf.SetXY(x, y)
				d.pdf.CellFormat(w, h, d.text(c.Title), "", 0, align(c.Align)+"M", false, 0, "")
				x += w
			}
		},
	}
}

// TableRow wraps every cell to its column and sizes the row to the tallest cell.
func (d *Document) TableRow(cols []Column, cells []Cell, shade bool) layout.Block {
	g := d.opts.Geometry
	t := d.opts.Theme

	wrapped := make([][]string, len(cols))
	lines := 1
	for i, c := range cols {
		if i >= len(cells) {
			break
		}
		if cells[i].Link != "" {
			d.setFont(styleBold, sizeBody)
		} else {
			d.setFont(styleRegular, sizeBody)
		}
		ls := d.SplitText(cells[i].Text, c.Width*g.ContentWidth())
		if len(ls) > maxRowLines {
			ls = append(ls[:maxRowLines-1], ls[maxRowLines-1]+ellipsis)
		}
		wrapped[i] = ls
		if len(ls) > lines {
			lines = len(ls)
		}
	}
	h := float64(lines)*lineHeight + 2*rowPad

	return layout.Block{
		Kind:   KindRow,
		Height: h,
		Draw: func(y float64) {
			if shade {
				d.fill(t.Panel)
				d.pdf.Rect(g.Left, y, g.ContentWidth(), h, "F")
			}
			d.draw(t.Rule)
			d.pdf.SetLineWidth(0.1)
			d.pdf.Line(g.Left, y+h, g.Left+g.ContentWidth(), y+h)

			x := g.Left
			for i, c := range cols {
				w := c.Width * g.ContentWidth()
				link := ""
				if i < len(cells) {
					link = cells[i].Link
				}
				d.setFont(styleRegular, sizeBody)
				d.color(t.Ink)
				if link != "" {
					d.setFont(styleBold, sizeBody)
					d.color(t.Link)
				}
				for j, line := range wrapped[i] {
					d.pdf.SetXY(x, y+rowPad+float64(j)*lineHeight)
					d.pdf.CellFormat(w, lineHeight, d.tr(line), "", 0, align(c.Align)+"M", false, 0, link)
				}
				x += w
			}
		},
	}
}

// panel is the shared shape of callouts and substitution lists: a filled
// background, an optional bold title line and pre-wrapped body lines.
type panel struct {
	kind   string
	title  string
	size   float64
	fill   RGB
	accent bool
	lines  []string
}

// minPanelLines is the fewest body lines worth starting at the bottom of a
// page. With less room the first chunk opens on the next page.
const minPanelLines = 3

// chunks measures p and returns it as one block when it fits on a page, or
// as a run of blocks sized to the space left on the current page and then to
// whole pages. Continuation chunks repeat the title.
func (d *Document) chunks(p panel) []layout.Block {
	g := d.opts.Geometry
	head := calloutPad.Top + calloutPad.Bottom
	if p.title != "" {
		head += lineHeight
	}
	lines := p.lines
	if len(lines) == 0 {
		lines = []string{""}
	}

	if head+float64(len(lines))*lineHeight <= g.ContentHeight() {
		return []layout.Block{d.panelBlock(p, p.title, lines)}
	}

	perPage := func(avail float64) int {
		return max(int(math.Floor((avail-head+1e-9)/lineHeight)), 1)
	}
	n := perPage(d.pager.Remaining())
	if n < minPanelLines {
		n = perPage(g.ContentHeight())
	}

	var out []layout.Block
	title := p.title
	for len(lines) > 0 {
		n = min(n, len(lines))
		out = append(out, d.panelBlock(p, title, lines[:n]))
		lines = lines[n:]
		n = perPage(g.ContentHeight())
		if p.title != "" {
			title = p.title + " (cont.)"
		}
	}
	return out
}

// panelBlock draws the background before the text so it contains every line.
func (d *Document) panelBlock(p panel, title string, lines []string) layout.Block {
	g := d.opts.Geometry
	t := d.opts.Theme
	width := g.ContentWidth()
	h := calloutPad.Top + float64(len(lines))*lineHeight + calloutPad.Bottom
	if title != "" {
		h += lineHeight
	}

	return layout.Block{
		Kind:   p.kind,
		Height: h,
		Draw: func(y float64) {
			d.fill(p.fill)
			d.pdf.Rect(g.Left, y, width, h, "F")
			if p.accent {
				d.fill(t.Brand)
				d.pdf.Rect(g.Left, y, 1.2, h, "F")
			}

			tx := g.Left + calloutPad.Left
			tw := width - calloutPad.Left - calloutPad.Right
			ty := y + calloutPad.Top
			d.color(t.Ink)
			if title != "" {
				d.setFont(styleBold, p.size)
				d.pdf.SetXY(tx, ty)
				d.pdf.CellFormat(tw, lineHeight, d.tr(d.fitLine(title, tw)), "", 0, "LM", false, 0, "")
				ty += lineHeight
			}
			d.setFont(styleRegular, p.size)
			for i, line := range lines {
				d.pdf.SetXY(tx, ty+float64(i)*lineHeight)
				d.pdf.CellFormat(tw, lineHeight, d.tr(line), "", 0, "LM", false, 0, "")
			}
		},
	}
}

// Callout is a shaded panel with a bold title and wrapped body text. Text
// taller than a page continues in further panels.
func (d *Document) Callout(title, body string) []layout.Block {
	d.setFont(styleRegular, sizeBody)
	_, lines := layout.WrappedHeight(d, body, d.opts.Geometry.ContentWidth(), lineHeight, calloutPad)
	return d.chunks(panel{
		kind:   KindCallout,
		title:  title,
		size:   sizeBody,
		fill:   d.opts.Theme.Panel,
		accent: true,
		lines:  lines,
	})
}

// SubstitutionPanel lists the alternatives for one food.
func (d *Document) SubstitutionPanel(food string, options []string) []layout.Block {
	items := make([]string, len(options))
	for i, o := range options {
		items[i] = "- " + o
	}
	d.setFont(styleRegular, sizeSmall)
	_, wrapped := layout.WrappedListHeight(d, items, d.opts.Geometry.ContentWidth(), lineHeight, calloutPad)
	var lines []string
	for _, item := range wrapped {
		lines = append(lines, item...)
	}
	return d.chunks(panel{
		kind:  KindSubstitute,
		title: "Substitutions for " + food,
		size:  sizeSmall,
		fill:  d.opts.Theme.Tint,
		lines: lines,
	})
}

// Heading is a bold line used by paragraph fallback output. Text wider than
// the page is cut with an ellipsis.
func (d *Document) Heading(text string) layout.Block {
	g := d.opts.Geometry
	t := d.opts.Theme
	h := 8.0
	d.setFont(styleBold, sizeHeading)
	line := d.fitLine(text, g.ContentWidth())
	return layout.Block{
		Kind:   KindHeading,
		Height: h,
		Draw: func(y float64) {
			d.setFont(styleBold, sizeHeading)
			d.color(t.Brand)
			d.pdf.SetXY(g.Left, y)
			d.pdf.CellFormat(g.ContentWidth(), h, d.tr(line), "", 0, "LB", false, 0, "")
		},
	}
}

// fitLine returns text as a single line no wider than width in the current
// font, cut at a rune boundary with an ellipsis when it is too long. The
// result is escaped but not yet translated.
func (d *Document) fitLine(text string, width float64) string {
	lines := d.SplitText(strings.ReplaceAll(text, "\n", " "), width)
	if len(lines) <= 1 {
		return strings.Join(lines, "")
	}
	cut := []rune(strings.TrimRight(lines[0], " "))
	for len(cut) > 0 {
		candidate := string(cut) + ellipsis
		if len(d.SplitText(candidate, width)) <= 1 {
			return candidate
		}
		cut = cut[:len(cut)-1]
	}
	return ellipsis
}

// TextLines wraps body text and returns one block per line, so long text
// flows across pages instead of overflowing.
func (d *Document) TextLines(text string, style string, ink RGB) []layout.Block {
	g := d.opts.Geometry
	d.setFont(style, sizeBody)
	lines := d.SplitText(text, g.ContentWidth())
	blocks := make([]layout.Block, 0, len(lines))
	for _, line := range lines {
		line := line
		blocks = append(blocks, layout.Block{
			Kind:   KindParagraph,
			Height: lineHeight,
			Draw: func(y float64) {
				d.setFont(style, sizeBody)
				d.color(ink)
				d.pdf.SetXY(g.Left, y)
				d.pdf.CellFormat(g.ContentWidth(), lineHeight, d.tr(line), "", 0, "LM", false, 0, "")
			},
		})
	}
	return blocks
}

// ChartRow places panels side by side across the content width, scaled to
// a common height that fits on one page.
func (d *Document) ChartRow(panels ...charts.Panel) layout.Block {
	g := d.opts.Geometry
	gap := 4.0
	n := float64(len(panels))
	if n == 0 {
		return layout.Block{Kind: KindChart}
	}

	totalW := 0.0
	for _, p := range panels {
		totalW += p.WidthMM / p.HeightMM
	}
	// height at which the panels, keeping aspect, fill the width
	h := (g.ContentWidth() - gap*(n-1)) / totalW
	h = math.Min(h, g.ContentHeight()*0.6)
	for _, p := range panels {
		h = math.Min(h, p.HeightMM)
	}

	rowW := gap * (n - 1)
	for _, p := range panels {
		rowW += h * p.WidthMM / p.HeightMM
	}

	return layout.Block{
		Kind:   KindChart,
		Height: h,
		Draw: func(y float64) {
			x := g.Left + (g.ContentWidth()-rowW)/2
			for _, p := range panels {
				w := h * p.WidthMM / p.HeightMM
				d.image(p, x, y, w, h)
				x += w + gap
			}
		},
	}
}

func (d *Document) image(p charts.Panel, x, y, w, h float64) {
	d.images++
	name := fmt.Sprintf("%s-%d", p.Name, d.images)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(p.PNG))
	d.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}

func align(a string) string {
	switch strings.ToUpper(a) {
	case "C", "R":
		return strings.ToUpper(a)
	}
	return "L"
}
