package charts

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/jonathan/coach-report/internal/bodycomp"
)

// BarSpec is one metric drawn against its threshold set.
type BarSpec struct {
	Title string
	Set   bodycomp.ThresholdSet
	Value float64
}

// Band is one colored segment of a threshold bar, in pixels from the bar's left edge.
type Band struct {
	Label  string
	X0, X1 float64
	Color  color.NRGBA
}

// Tick is a threshold boundary mapped to the bar.
type Tick struct {
	Value float64
	X     float64
}

// BarGeometry is everything needed to draw a threshold bar of a given width.
type BarGeometry struct {
	Bands   []Band
	Ticks   []Tick
	MarkerX float64
}

const (
	barWidthMM  = 170.0
	barHeightMM = 22.0
	barTrackMM  = 5.0
)

// MapValue maps v from [min, max] onto [0, width], clamping at both ends.
// The mapping is non-decreasing in v.
func MapValue(v, min, max, width float64) float64 {
	if max <= min || !finite(v) {
		return 0
	}
	return width * clamp01((v-min)/(max-min))
}

// ThresholdBarGeometry splits width into len(Labels) equal bands, maps each
// threshold point and the current value with MapValue.
func ThresholdBarGeometry(spec BarSpec, width float64) BarGeometry {
	set := spec.Set
	var g BarGeometry

	n := len(set.Labels)
	colors := bandColors(n)
	for i, label := range set.Labels {
		g.Bands = append(g.Bands, Band{
			Label: label,
			X0:    width * float64(i) / float64(n),
			X1:    width * float64(i+1) / float64(n),
			Color: colors[i],
		})
	}
	for _, p := range set.Points {
		g.Ticks = append(g.Ticks, Tick{Value: p, X: MapValue(p, set.Min, set.Max, width)})
	}
	g.MarkerX = MapValue(spec.Value, set.Min, set.Max, width)
	return g
}

// ThresholdBar renders a banded bar with threshold ticks and a marker at the value.
func ThresholdBar(spec BarSpec) (Panel, error) {
	if len(spec.Set.Labels) == 0 || spec.Set.Max <= spec.Set.Min {
		return Panel{}, &ChartError{Chart: "threshold", Message: fmt.Sprintf("invalid scale for %q", spec.Set.Label)}
	}

	dc, err := canvas("threshold", barWidthMM, barHeightMM, 7)
	if err != nil {
		return Panel{}, err
	}

	left := 4 * PxPerMM
	width := float64(dc.Width()) - 2*left
	top := 8 * PxPerMM
	track := barTrackMM * PxPerMM
	g := ThresholdBarGeometry(spec, width)

	dc.SetColor(colorInk)
	title := spec.Title
	if title == "" {
		title = spec.Set.Label
	}
	dc.DrawStringAnchored(title, left, 2*PxPerMM, 0, 1)

	for _, b := range g.Bands {
		dc.SetColor(b.Color)
		dc.DrawRectangle(left+b.X0, top, b.X1-b.X0, track)
		dc.Fill()
		dc.SetColor(colorInk)
		dc.DrawStringAnchored(b.Label, left+(b.X0+b.X1)/2, top+track/2, 0.5, 0.5)
	}

	dc.SetLineWidth(2)
	for _, t := range g.Ticks {
		x := left + t.X
		dc.SetColor(colorOutline)
		dc.DrawLine(x, top+track, x, top+track+1.5*PxPerMM)
		dc.Stroke()
		dc.DrawStringAnchored(formatValue(t.Value), x, top+track+2*PxPerMM, 0.5, 1)
	}

	mx := left + g.MarkerX
	size := 1.6 * PxPerMM
	dc.SetColor(colorInk)
	dc.MoveTo(mx, top)
	dc.LineTo(mx-size, top-1.6*size)
	dc.LineTo(mx+size, top-1.6*size)
	dc.ClosePath()
	dc.Fill()
	caption := formatValue(spec.Value)
	if spec.Set.Unit != "" {
		caption += " " + spec.Set.Unit
	}
	dc.DrawStringAnchored(caption, mx+size+PxPerMM, top-1.6*size, 0, 0)

	return encode(dc, "threshold", barWidthMM, barHeightMM)
}

func formatValue(v float64) string {
	if v >= 10 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
