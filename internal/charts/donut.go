package charts

import (
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// DonutSpec is the lean versus fat split shown in the body section.
type DonutSpec struct {
	LeanPct  float64
	FatPct   float64
	WeightKg float64
}

// Arc is one donut segment. Angles are in degrees, clockwise from the +X axis
// in screen space, so -90 is the top of the circle.
type Arc struct {
	Label      string
	Pct        float64
	Start      float64
	End        float64
	LabelAngle float64
}

// Sweep returns the arc's angular size in degrees.
func (a Arc) Sweep() float64 { return a.End - a.Start }

// DonutStartAngle is where the first arc begins.
const DonutStartAngle = -90.0

const (
	donutWidthMM    = 90.0
	donutHeightMM   = 70.0
	donutOuterRatio = 0.30 // of panel height
	donutInnerRatio = 0.62 // of the outer radius
	donutLabelGap   = 5.0  // mm beyond the outer radius
)

// DonutArcs returns the lean arc followed by the fat arc. The percentages are
// rescaled to their sum, the lean arc starts at the top, and the fat arc ends
// exactly one full turn after the lean arc starts.
func DonutArcs(spec DonutSpec) ([]Arc, error) {
	if !finite(spec.LeanPct, spec.FatPct) || spec.LeanPct < 0 || spec.FatPct < 0 {
		return nil, &ChartError{Chart: "donut", Message: "percentages must be non-negative numbers"}
	}
	total := spec.LeanPct + spec.FatPct
	if total <= 0 {
		return nil, &ChartError{Chart: "donut", Message: "percentages sum to zero"}
	}

	leanEnd := DonutStartAngle + 360*spec.LeanPct/total
	lean := Arc{Label: "Lean", Pct: 100 * spec.LeanPct / total, Start: DonutStartAngle, End: leanEnd}
	fat := Arc{Label: "Fat", Pct: 100 * spec.FatPct / total, Start: leanEnd, End: DonutStartAngle + 360}
	lean.LabelAngle = (lean.Start + lean.End) / 2
	fat.LabelAngle = (fat.Start + fat.End) / 2
	return []Arc{lean, fat}, nil
}

// LabelPosition places an arc label at its bisecting angle, radius away from center.
func LabelPosition(center Point, radius float64, a Arc) Point {
	rad := gg.Radians(a.LabelAngle)
	return Point{X: center.X + radius*math.Cos(rad), Y: center.Y + radius*math.Sin(rad)}
}

// Donut renders the lean/fat donut with the body weight in the hole.
func Donut(spec DonutSpec) (Panel, error) {
	arcs, err := DonutArcs(spec)
	if err != nil {
		return Panel{}, err
	}

	dc, err := canvas("donut", donutWidthMM, donutHeightMM, 9)
	if err != nil {
		return Panel{}, err
	}

	h := float64(dc.Height())
	center := Point{X: float64(dc.Width()) / 2, Y: h / 2}
	outer := h * donutOuterRatio
	inner := outer * donutInnerRatio

	colors := []color.Color{colorLean, colorFat}
	for i, a := range arcs {
		if a.Sweep() <= 0 {
			continue
		}
		a1, a2 := gg.Radians(a.Start), gg.Radians(a.End)
		dc.NewSubPath()
		dc.DrawArc(center.X, center.Y, outer, a1, a2)
		dc.DrawArc(center.X, center.Y, inner, a2, a1)
		dc.ClosePath()
		dc.SetColor(colors[i])
		dc.Fill()

		pos := LabelPosition(center, outer+donutLabelGap*PxPerMM, a)
		ax := 0.5
		if pos.X < center.X-1 {
			ax = 1
		} else if pos.X > center.X+1 {
			ax = 0
		}
		dc.SetColor(colorInk)
		dc.DrawStringAnchored(fmt.Sprintf("%s %.0f%%", a.Label, a.Pct), pos.X, pos.Y, ax, 0.5)
	}

	dc.SetColor(colorInk)
	if spec.WeightKg > 0 {
		dc.DrawStringAnchored(fmt.Sprintf("%.1f kg", spec.WeightKg), center.X, center.Y, 0.5, 0.5)
	}

	return encode(dc, "donut", donutWidthMM, donutHeightMM)
}
