// Package charts computes chart geometry from numeric inputs and rasterizes it into embeddable panels.
//
// Every function here is pure: it reads only its arguments and returns a new
// Panel or geometry value. Placement on a page is the paginator's concern.
package charts

import (
	"bytes"
	"image/color"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// PxPerMM is the raster resolution of every panel (about 203 dpi).
const PxPerMM = 8.0

// Panel is a rendered chart sized for the page.
type Panel struct {
	Name     string
	WidthMM  float64
	HeightMM float64
	PNG      []byte
}

// Point is a position in whatever unit space the caller documents.
type Point struct {
	X, Y float64
}

var (
	fontOnce sync.Once
	fontErr  error
	baseFont *truetype.Font
)

// face returns a new face at size points. Faces keep glyph caches and are
// not shared between renders.
func face(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		baseFont, fontErr = truetype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fontErr
	}
	return truetype.NewFace(baseFont, &truetype.Options{Size: size, DPI: PxPerMM * 25.4}), nil
}

// canvas allocates a white context for a panel of the given size in millimeters.
func canvas(chart string, widthMM, heightMM, fontSize float64) (*gg.Context, error) {
	w := int(math.Round(widthMM * PxPerMM))
	h := int(math.Round(heightMM * PxPerMM))
	if w <= 0 || h <= 0 {
		return nil, &ChartError{Chart: chart, Message: "panel has no area"}
	}
	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()

	ff, err := face(fontSize)
	if err != nil {
		return nil, &ChartError{Chart: chart, Message: "failed to load font", Cause: err}
	}
	dc.SetFontFace(ff)
	return dc, nil
}

func encode(dc *gg.Context, chart string, widthMM, heightMM float64) (Panel, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return Panel{}, &ChartError{Chart: chart, Message: "failed to encode PNG", Cause: err}
	}
	return Panel{Name: chart, WidthMM: widthMM, HeightMM: heightMM, PNG: buf.Bytes()}, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
