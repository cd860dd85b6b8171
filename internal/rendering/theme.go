// Package rendering lays out parsed plans and body metrics as a paginated PDF report.
package rendering

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB is a color with 0-255 components.
type RGB struct {
	R, G, B int
}

// Theme is the report's color scheme.
type Theme struct {
	Brand     RGB
	BrandText RGB
	Tint      RGB
	Panel     RGB
	Rule      RGB
	Ink       RGB
	Muted     RGB
	Link      RGB
}

// DefaultBrand is the header band color used when none is configured.
const DefaultBrand = "#1F4E79"

// DefaultTheme returns the theme built from DefaultBrand.
func DefaultTheme() Theme {
	t, _ := ThemeFromBrand(DefaultBrand)
	return t
}

// ThemeFromBrand derives a theme from a "#RRGGBB" brand color.
func ThemeFromBrand(hex string) (Theme, error) {
	brand, err := ParseHex(hex)
	if err != nil {
		return Theme{}, err
	}
	return Theme{
		Brand:     brand,
		BrandText: RGB{255, 255, 255},
		Tint:      mix(brand, RGB{255, 255, 255}, 0.82),
		Panel:     RGB{244, 246, 248},
		Rule:      RGB{210, 214, 220},
		Ink:       RGB{34, 34, 34},
		Muted:     RGB{110, 116, 124},
		Link:      RGB{21, 101, 192},
	}, nil
}

// ParseHex parses "#RRGGBB" or "RRGGBB".
func ParseHex(hex string) (RGB, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid color %q: want #RRGGBB", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return RGB{R: int(v >> 16 & 0xFF), G: int(v >> 8 & 0xFF), B: int(v & 0xFF)}, nil
}

// mix blends a toward b by t in [0, 1].
func mix(a, b RGB, t float64) RGB {
	lerp := func(x, y int) int { return int(float64(x) + (float64(y)-float64(x))*t + 0.5) }
	return RGB{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B)}
}
