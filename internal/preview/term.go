// Package preview renders a parsed plan for the screen: an HTML page and a
// terminal view. Both resolve videos and methods through the same views
// package as the printed report.
package preview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth = 100
	minWidth     = 40
	noVideoLabel = "no video"
	minColumn    = 4
)

// styles holds the terminal styles derived from the brand color.
type styles struct {
	header  lipgloss.Style
	title   lipgloss.Style
	bold    lipgloss.Style
	muted   lipgloss.Style
	body    lipgloss.Style
	link    lipgloss.Style
	callout lipgloss.Style
	sep     lipgloss.Style
}

func newStyles(brand string, width int) styles {
	accent := lipgloss.Color(brand)
	return styles{
		header: lipgloss.NewStyle().
			Background(accent).
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true).
			Padding(0, 1).
			Width(width),
		title: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(accent).
			PaddingLeft(1),
		bold:  lipgloss.NewStyle().Bold(true),
		muted: lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true),
		body:  lipgloss.NewStyle(),
		link:  lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3")).Underline(true),
		callout: lipgloss.NewStyle().
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(accent).
			PaddingLeft(1).
			Width(width - 2),
		sep: lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}

// RenderTerminal lays page out for a terminal of the given width in columns.
// A width of zero uses 100 columns.
func RenderTerminal(page Page, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	width = max(width, minWidth)
	brand := page.Brand
	if !hexColor.MatchString(brand) {
		brand = DefaultBrand
	}
	st := newStyles(brand, width)

	var sb strings.Builder
	header := page.Title
	if page.Client != "" {
		header += " · " + page.Client
	}
	sb.WriteString(st.header.Render(header))
	sb.WriteString("\n\n")

	if page.PlanTitle != "" {
		sb.WriteString(st.bold.Render(page.PlanTitle))
		sb.WriteString("\n\n")
	}

	for _, meal := range page.Meals {
		sb.WriteString(st.title.Render(meal.Name))
		sb.WriteString("\n")
		if len(meal.FoodItems) == 0 {
			sb.WriteString(st.muted.Render("No items listed."))
			sb.WriteString("\n")
		} else {
			rows := make([][]cell, 0, len(meal.FoodItems))
			for _, f := range meal.FoodItems {
				rows = append(rows, []cell{plain(f.Name), plain(f.Portion)})
			}
			sb.WriteString(table(st, []string{"Food", "Portion"}, rows, width))
			for _, f := range meal.FoodItems {
				if len(f.Substitutions) > 0 {
					sb.WriteString(st.callout.Render("Options for " + f.Name + ": " + strings.Join(f.Substitutions, "; ")))
					sb.WriteString("\n")
				}
			}
		}
		if meal.Observations != "" {
			sb.WriteString(st.callout.Render(st.bold.Render("Observations") + " " + meal.Observations))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(page.Shopping) > 0 {
		sb.WriteString(st.title.Render("Shopping list"))
		sb.WriteString("\n")
		for _, item := range page.Shopping {
			sb.WriteString("  • " + item + "\n")
		}
		sb.WriteString("\n")
	}

	for _, b := range page.Blocks {
		sb.WriteString(st.title.Render(b.Heading))
		sb.WriteString("\n")
		if len(b.Rows) == 0 {
			sb.WriteString(st.muted.Render("No exercises listed."))
			sb.WriteString("\n")
		} else {
			rows := make([][]cell, 0, len(b.Rows))
			for _, r := range b.Rows {
				video := cell{text: noVideoLabel, style: &st.muted}
				if r.Video.HasVideo() {
					video = cell{text: r.Video.URL, style: &st.link}
				}
				name := r.Exercise.Name
				if r.Detail != "" {
					name += " (" + r.Detail + ")"
				}
				rows = append(rows, []cell{plain(r.Exercise.Number), plain(name), plain(r.Exercise.Sets), plain(r.Exercise.Reps), video})
			}
			sb.WriteString(table(st, []string{"#", "Exercise", "Sets", "Reps", "Video"}, rows, width))
		}
		for _, m := range b.Methods {
			sb.WriteString(st.callout.Render(st.bold.Render(m.Name) + " " + m.Description))
			sb.WriteString("\n")
		}
		if b.Block.Observations != "" {
			sb.WriteString(st.callout.Render(st.bold.Render("Observations") + " " + b.Block.Observations))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	for _, p := range page.Paragraphs {
		if p.Heading {
			sb.WriteString("\n" + st.title.Render(p.Text) + "\n")
			continue
		}
		sb.WriteString(st.body.Width(width).Render(p.Text))
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// cell is one table cell; text is styled after truncation.
type cell struct {
	text  string
	style *lipgloss.Style
}

func plain(text string) cell { return cell{text: text} }

// table renders a header row and rows with columns padded to their widest
// cell. The widest columns are narrowed until the table fits width.
func table(st styles, headers []string, rows [][]cell, width int) string {
	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, c := range row {
			if i < len(colWidths) {
				colWidths[i] = max(colWidths[i], lipgloss.Width(c.text))
			}
		}
	}

	// cells are padded by one column on each side and joined by "|"
	total := len(headers) - 1
	for _, w := range colWidths {
		total += w + 2
	}
	for total > width {
		widest := 0
		for i, w := range colWidths {
			if w > colWidths[widest] {
				widest = i
			}
		}
		if colWidths[widest] <= minColumn {
			break
		}
		colWidths[widest]--
		total--
	}

	var sb strings.Builder
	writeRow := func(cells []cell, base lipgloss.Style) {
		for i := range headers {
			c := cell{}
			if i < len(cells) {
				c = cells[i]
			}
			text := truncate(c.text, colWidths[i])
			if c.style != nil {
				text = c.style.Render(text)
			}
			sb.WriteString(base.Width(colWidths[i]+2).MaxHeight(1).Padding(0, 1).Render(text))
			if i < len(headers)-1 {
				sb.WriteString(st.sep.Render("|"))
			}
		}
		sb.WriteString("\n")
	}

	head := make([]cell, len(headers))
	for i, h := range headers {
		head[i] = plain(h)
	}
	writeRow(head, st.bold)
	rule := make([]string, len(headers))
	for i, w := range colWidths {
		rule[i] = strings.Repeat("─", w+2)
	}
	sb.WriteString(st.sep.Render(strings.Join(rule, "+")))
	sb.WriteString("\n")
	for _, row := range rows {
		writeRow(row, st.body)
	}
	return sb.String()
}

// truncate shortens s to n display columns, marking the cut with "…".
func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > n {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
