package charts

import (
	"fmt"
	"image/color"
	"math"

	"github.com/jonathan/coach-report/internal/bodycomp"
)

// ScatterSpec places one client on the lean-index / fat-index plane.
type ScatterSpec struct {
	LeanIndex float64
	FatIndex  float64
	Zones     bodycomp.ScatterZones
}

// Rect is an axis-aligned rectangle in normalized plot coordinates: (0,0) is
// the top-left of the plot area and (1,1) its bottom-right.
type Rect struct {
	X, Y, W, H float64
}

// Quadrant is one qualitative region of the scatter background.
type Quadrant struct {
	Rect
	Lean  string
	Fat   string
	Color color.NRGBA
}

// AxisSteps is the number of intervals between axis tick labels.
const AxisSteps = 5

const (
	scatterWidthMM  = 90.0
	scatterHeightMM = 70.0
	scatterPadMM    = 12.0
)

// ScatterQuadrants partitions the plot into low/high lean by low/adequate/high
// fat. High fat is at the top.
func ScatterQuadrants(z bodycomp.ScatterZones) []Quadrant {
	leanX := clamp01(z.LeanCut / z.MaxX)
	highY := clamp01(1 - z.FatHigh/z.MaxY)
	lowY := clamp01(1 - z.FatLow/z.MaxY)

	rows := []struct {
		fat    string
		y0, y1 float64
		shades [2]color.NRGBA
	}{
		{"high", 0, highY, [2]color.NRGBA{
			{R: 0xF8, G: 0xD7, B: 0xD3, A: 0xFF}, {R: 0xFB, G: 0xE5, B: 0xCF, A: 0xFF}}},
		{"adequate", highY, lowY, [2]color.NRGBA{
			{R: 0xFD, G: 0xF1, B: 0xCF, A: 0xFF}, {R: 0xD8, G: 0xEF, B: 0xD9, A: 0xFF}}},
		{"low", lowY, 1, [2]color.NRGBA{
			{R: 0xE3, G: 0xE8, B: 0xF4, A: 0xFF}, {R: 0xD4, G: 0xEC, B: 0xF2, A: 0xFF}}},
	}
	cols := []struct {
		lean   string
		x0, x1 float64
	}{
		{"low", 0, leanX},
		{"high", leanX, 1},
	}

	out := make([]Quadrant, 0, len(rows)*len(cols))
	for _, r := range rows {
		for ci, c := range cols {
			out = append(out, Quadrant{
				Rect:  Rect{X: c.x0, Y: r.y0, W: c.x1 - c.x0, H: r.y1 - r.y0},
				Lean:  c.lean,
				Fat:   r.fat,
				Color: r.shades[ci],
			})
		}
	}
	return out
}

// ScatterPoint maps the client to normalized plot coordinates
// (leanIndex/maxX, 1 - fatIndex/maxY), clamped to the plot.
func ScatterPoint(spec ScatterSpec) Point {
	return Point{
		X: clamp01(spec.LeanIndex / spec.Zones.MaxX),
		Y: clamp01(1 - spec.FatIndex/spec.Zones.MaxY),
	}
}

// AxisTicks returns steps+1 evenly spaced values from 0 to max.
func AxisTicks(max float64, steps int) []float64 {
	if steps <= 0 {
		return []float64{0}
	}
	ticks := make([]float64, steps+1)
	for i := range ticks {
		ticks[i] = max * float64(i) / float64(steps)
	}
	return ticks
}

// Scatter renders the lean-index / fat-index chart.
func Scatter(spec ScatterSpec) (Panel, error) {
	z := spec.Zones
	if !finite(spec.LeanIndex, spec.FatIndex) || z.MaxX <= 0 || z.MaxY <= 0 {
		return Panel{}, &ChartError{Chart: "scatter", Message: "axis maxima must be positive and inputs finite"}
	}

	dc, err := canvas("scatter", scatterWidthMM, scatterHeightMM, 7)
	if err != nil {
		return Panel{}, err
	}

	pad := scatterPadMM * PxPerMM
	plotW := float64(dc.Width()) - 1.5*pad
	plotH := float64(dc.Height()) - 1.5*pad
	originX, originY := pad, pad/2
	toPx := func(p Point) (float64, float64) {
		return originX + p.X*plotW, originY + p.Y*plotH
	}

	for _, q := range ScatterQuadrants(z) {
		x, y := toPx(Point{X: q.X, Y: q.Y})
		dc.SetColor(q.Color)
		dc.DrawRectangle(x, y, q.W*plotW, q.H*plotH)
		dc.Fill()
	}

	dc.SetColor(colorOutline)
	dc.SetLineWidth(1.5)
	dc.DrawRectangle(originX, originY, plotW, plotH)
	dc.Stroke()

	dc.SetColor(colorMuted)
	for i, v := range AxisTicks(z.MaxX, AxisSteps) {
		x := originX + plotW*float64(i)/AxisSteps
		dc.DrawStringAnchored(formatTick(v), x, originY+plotH+2*PxPerMM, 0.5, 1)
	}
	for i, v := range AxisTicks(z.MaxY, AxisSteps) {
		y := originY + plotH - plotH*float64(i)/AxisSteps
		dc.DrawStringAnchored(formatTick(v), originX-1.5*PxPerMM, y, 1, 0.5)
	}

	dc.SetColor(colorInk)
	dc.DrawStringAnchored("Lean mass index (kg/m²)", originX+plotW/2, float64(dc.Height())-PxPerMM, 0.5, 0)
	dc.Push()
	dc.RotateAbout(-math.Pi/2, 2*PxPerMM, originY+plotH/2)
	dc.DrawStringAnchored("Fat mass index (kg/m²)", 2*PxPerMM, originY+plotH/2, 0.5, 1)
	dc.Pop()

	px, py := toPx(ScatterPoint(spec))
	dc.SetColor(colorInk)
	dc.DrawCircle(px, py, 1.6*PxPerMM)
	dc.Fill()
	dc.SetColor(color.White)
	dc.DrawCircle(px, py, 0.7*PxPerMM)
	dc.Fill()

	return encode(dc, "scatter", scatterWidthMM, scatterHeightMM)
}

func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
