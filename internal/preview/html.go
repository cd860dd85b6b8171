// Package preview renders a parsed plan for the screen: an HTML page and a
// terminal view. Both resolve videos and methods through the same views
// package as the printed report.
package preview

import (
	"embed"
	"html/template"
	"io"
	"regexp"
)

//go:embed templates/preview.html.tmpl
var templateFS embed.FS

var (
	pageTemplate = template.Must(template.ParseFS(templateFS, "templates/preview.html.tmpl"))
	hexColor     = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// RenderHTML writes page as a standalone HTML document.
func RenderHTML(w io.Writer, page Page) error {
	if !hexColor.MatchString(page.Brand) {
		page.Brand = DefaultBrand
	}
	if err := pageTemplate.ExecuteTemplate(w, "preview.html.tmpl", page); err != nil {
		return &Error{Format: FormatHTML, Message: "failed to execute template", Cause: err}
	}
	return nil
}
