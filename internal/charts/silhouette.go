package charts

import (
	"fmt"

	"github.com/jonathan/coach-report/internal/types"
)

// Landmark is a measured body site.
type Landmark int

const (
	LandmarkArm Landmark = iota
	LandmarkChest
	LandmarkWaist
	LandmarkHip
	LandmarkThigh
	LandmarkCalf
)

var landmarkNames = map[Landmark]string{
	LandmarkArm:   "Arm",
	LandmarkChest: "Chest",
	LandmarkWaist: "Waist",
	LandmarkHip:   "Hip",
	LandmarkThigh: "Thigh",
	LandmarkCalf:  "Calf",
}

func (l Landmark) String() string {
	if s, ok := landmarkNames[l]; ok {
		return s
	}
	return "unknown"
}

// Side is which column a callout label sits in.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// Units accepted by SilhouetteSpec.
const (
	UnitCM   = "cm"
	UnitInch = "in"
)

// SilhouetteScale converts outline units to millimeters.
const SilhouetteScale = 0.42

// bodyOutline is a front-facing figure in outline units, centered on x = 0
// with the top of the head at y = 0.
var bodyOutline = []Point{
	{0, 0}, {9, 2}, {12, 10}, {10, 20}, {6, 25}, {7, 29},
	{24, 33}, {30, 40}, {33, 62}, {36, 90}, {31, 92}, {27, 66}, {23, 46},
	{21, 70}, {24, 92}, {22, 120}, {19, 150}, {17, 180}, {21, 190}, {8, 190},
	{8, 180}, {6, 150}, {4, 120}, {1, 100},
	{-1, 100}, {-4, 120}, {-6, 150}, {-8, 180}, {-8, 190}, {-21, 190}, {-17, 180},
	{-19, 150}, {-22, 120}, {-24, 92}, {-21, 70}, {-23, 46}, {-27, 66}, {-31, 92},
	{-36, 90}, {-33, 62}, {-30, 40}, {-24, 33}, {-7, 29}, {-6, 25}, {-10, 20},
	{-12, 10}, {-9, 2},
}

// landmarkAnchors are points on the outline, in outline units.
var landmarkAnchors = map[Landmark]Point{
	LandmarkArm:   {-31, 50},
	LandmarkChest: {20, 42},
	LandmarkWaist: {-21, 68},
	LandmarkHip:   {24, 88},
	LandmarkThigh: {-21, 118},
	LandmarkCalf:  {18, 155},
}

// SilhouetteSpec lists the circumferences to annotate. Zero values are skipped.
type SilhouetteSpec struct {
	Values map[Landmark]float64 // centimeters
	Unit   string
}

// SpecFromMeasurements builds a SilhouetteSpec from a profile's measurements.
func SpecFromMeasurements(m types.Measurements, unit string) SilhouetteSpec {
	return SilhouetteSpec{
		Unit: unit,
		Values: map[Landmark]float64{
			LandmarkArm:   m.ArmCm,
			LandmarkChest: m.ChestCm,
			LandmarkWaist: m.WaistCm,
			LandmarkHip:   m.HipCm,
			LandmarkThigh: m.ThighCm,
			LandmarkCalf:  m.CalfCm,
		},
	}
}

// Callout is a leader line from a landmark to its label, in millimeters
// relative to the figure's top center.
type Callout struct {
	Landmark Landmark
	Anchor   Point
	Label    Point
	Side     Side
	Text     string
}

const (
	silhouetteWidthMM  = 120.0
	silhouetteHeightMM = 90.0
	calloutColumnMM    = 24.0 // label distance beyond the figure's half width
)

// Outline returns the body polygon scaled to millimeters.
func Outline() []Point {
	out := make([]Point, len(bodyOutline))
	for i, p := range bodyOutline {
		out[i] = Point{X: p.X * SilhouetteScale, Y: p.Y * SilhouetteScale}
	}
	return out
}

// SilhouetteCallouts computes the label for each measured landmark, in
// landmark order. Landmarks left of center get a label in the left column.
func SilhouetteCallouts(spec SilhouetteSpec) []Callout {
	halfWidth := 0.0
	for _, p := range bodyOutline {
		if p.X > halfWidth {
			halfWidth = p.X
		}
	}
	column := halfWidth*SilhouetteScale + calloutColumnMM

	var out []Callout
	for l := LandmarkArm; l <= LandmarkCalf; l++ {
		v := spec.Values[l]
		if v <= 0 {
			continue
		}
		a := landmarkAnchors[l]
		anchor := Point{X: a.X * SilhouetteScale, Y: a.Y * SilhouetteScale}
		c := Callout{Landmark: l, Anchor: anchor, Side: SideRight}
		c.Label = Point{X: column, Y: anchor.Y}
		if anchor.X < 0 {
			c.Side = SideLeft
			c.Label.X = -column
		}
		c.Text = fmt.Sprintf("%s: %s", l, formatMeasurement(v, spec.Unit))
		out = append(out, c)
	}
	return out
}

func formatMeasurement(cm float64, unit string) string {
	if unit == UnitInch {
		return fmt.Sprintf("%.1f in", cm/2.54)
	}
	return fmt.Sprintf("%.1f cm", cm)
}

// Silhouette renders the outline with a leader line and label per measurement.
func Silhouette(spec SilhouetteSpec) (Panel, error) {
	for l, v := range spec.Values {
		if !finite(v) || v < 0 {
			return Panel{}, &ChartError{Chart: "silhouette", Message: fmt.Sprintf("invalid %s measurement", l)}
		}
	}

	dc, err := canvas("silhouette", silhouetteWidthMM, silhouetteHeightMM, 7)
	if err != nil {
		return Panel{}, err
	}

	originX := float64(dc.Width()) / 2
	originY := 4 * PxPerMM
	toPx := func(p Point) (float64, float64) {
		return originX + p.X*PxPerMM, originY + p.Y*PxPerMM
	}

	for i, p := range Outline() {
		x, y := toPx(p)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
	dc.SetColor(colorBody)
	dc.FillPreserve()
	dc.SetColor(colorOutline)
	dc.SetLineWidth(2)
	dc.Stroke()

	dc.SetLineWidth(1.2)
	for _, c := range SilhouetteCallouts(spec) {
		ax, ay := toPx(c.Anchor)
		lx, ly := toPx(c.Label)
		dc.SetColor(colorMuted)
		dc.DrawLine(ax, ay, lx, ly)
		dc.Stroke()
		dc.DrawCircle(ax, ay, 0.6*PxPerMM)
		dc.Fill()

		dc.SetColor(colorInk)
		if c.Side == SideLeft {
			dc.DrawStringAnchored(c.Text, lx-PxPerMM, ly, 1, 0.5)
		} else {
			dc.DrawStringAnchored(c.Text, lx+PxPerMM, ly, 0, 0.5)
		}
	}

	return encode(dc, "silhouette", silhouetteWidthMM, silhouetteHeightMM)
}
