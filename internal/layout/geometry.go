// Package layout places measured blocks on fixed-size pages, breaking pages
// and repeating page chrome so that nothing is drawn below the bottom margin.
package layout

import "fmt"

// PageGeometry is a fixed physical page in millimeters.
type PageGeometry struct {
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
	Top      float64 `json:"top"`
	Bottom   float64 `json:"bottom"`
	Left     float64 `json:"left"`
	Right    float64 `json:"right"`
	// HeaderHeight is the band drawn at the top of every page, below Top.
	HeaderHeight float64 `json:"header_height"`
}

// A4 returns an A4 portrait page with the default margins and header band.
func A4() PageGeometry {
	return PageGeometry{
		WidthMM:      210,
		HeightMM:     297,
		Top:          15,
		Bottom:       15,
		Left:         12,
		Right:        12,
		HeaderHeight: 18,
	}
}

// ContentTop is where the cursor starts on each page.
func (g PageGeometry) ContentTop() float64 { return g.Top + g.HeaderHeight }

// ContentBottom is pageBottom - bottomMargin; nothing may extend below it.
func (g PageGeometry) ContentBottom() float64 { return g.HeightMM - g.Bottom }

// ContentWidth is the usable width between the side margins.
func (g PageGeometry) ContentWidth() float64 { return g.WidthMM - g.Left - g.Right }

// ContentHeight is the vertical space available for blocks on one page.
func (g PageGeometry) ContentHeight() float64 { return g.ContentBottom() - g.ContentTop() }

// Validate checks that the geometry leaves room for content.
func (g PageGeometry) Validate() error {
	if g.WidthMM <= 0 || g.HeightMM <= 0 {
		return fmt.Errorf("page size must be positive, got %.1fx%.1fmm", g.WidthMM, g.HeightMM)
	}
	if g.Top < 0 || g.Bottom < 0 || g.Left < 0 || g.Right < 0 || g.HeaderHeight < 0 {
		return fmt.Errorf("margins must not be negative")
	}
	if g.ContentWidth() <= 0 || g.ContentHeight() <= 0 {
		return fmt.Errorf("margins leave no content area on a %.1fx%.1fmm page", g.WidthMM, g.HeightMM)
	}
	return nil
}
