package charts

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/coach-report/internal/bodycomp"
	"github.com/jonathan/coach-report/internal/types"
)

func TestDonutArcs(t *testing.T) {
	arcs, err := DonutArcs(DonutSpec{LeanPct: 60, FatPct: 40, WeightKg: 70})
	require.NoError(t, err)
	require.Len(t, arcs, 2)

	lean, fat := arcs[0], arcs[1]
	assert.Equal(t, -90.0, lean.Start)
	assert.Equal(t, lean.End, fat.Start)
	assert.Equal(t, 360.0, lean.Sweep()+fat.Sweep())
	assert.InDelta(t, 216, lean.Sweep(), 1e-9)
	assert.InDelta(t, 144, fat.Sweep(), 1e-9)
	assert.InDelta(t, 18, lean.LabelAngle, 1e-9)
}

func TestDonutArcs_RescalesToSum(t *testing.T) {
	arcs, err := DonutArcs(DonutSpec{LeanPct: 30, FatPct: 10})
	require.NoError(t, err)
	assert.InDelta(t, 75, arcs[0].Pct, 1e-9)
	assert.InDelta(t, 270, arcs[0].Sweep(), 1e-9)
	assert.Equal(t, 270.0, arcs[1].End)
}

func TestDonutArcs_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		spec DonutSpec
	}{
		{"zero sum", DonutSpec{}},
		{"negative", DonutSpec{LeanPct: -1, FatPct: 50}},
		{"NaN", DonutSpec{LeanPct: math.NaN(), FatPct: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DonutArcs(tt.spec)
			var chartErr *ChartError
			require.True(t, errors.As(err, &chartErr))
			assert.Equal(t, "donut", chartErr.Chart)
		})
	}
}

func TestLabelPosition(t *testing.T) {
	top := LabelPosition(Point{X: 100, Y: 100}, 50, Arc{LabelAngle: -90})
	assert.InDelta(t, 100, top.X, 1e-9)
	assert.InDelta(t, 50, top.Y, 1e-9)

	right := LabelPosition(Point{X: 100, Y: 100}, 50, Arc{LabelAngle: 0})
	assert.InDelta(t, 150, right.X, 1e-9)
	assert.InDelta(t, 100, right.Y, 1e-9)
}

func TestScatterQuadrants(t *testing.T) {
	z := bodycomp.Zones(types.SexMale)
	quads := ScatterQuadrants(z)
	require.Len(t, quads, 6)

	area := 0.0
	seen := map[string]bool{}
	for _, q := range quads {
		area += q.W * q.H
		seen[q.Lean+"/"+q.Fat] = true
		assert.GreaterOrEqual(t, q.W, 0.0)
		assert.GreaterOrEqual(t, q.H, 0.0)
	}
	assert.InDelta(t, 1, area, 1e-9)
	assert.Len(t, seen, 6)

	// high fat is at the top
	assert.Equal(t, "high", quads[0].Fat)
	assert.Equal(t, 0.0, quads[0].Y)
}

func TestScatterPoint(t *testing.T) {
	z := bodycomp.ScatterZones{MaxX: 25, MaxY: 10, LeanCut: 15, FatLow: 3, FatHigh: 6}

	p := ScatterPoint(ScatterSpec{LeanIndex: 20, FatIndex: 4, Zones: z})
	assert.InDelta(t, 0.8, p.X, 1e-9)
	assert.InDelta(t, 0.6, p.Y, 1e-9)

	clamped := ScatterPoint(ScatterSpec{LeanIndex: 40, FatIndex: -2, Zones: z})
	assert.Equal(t, Point{X: 1, Y: 1}, clamped)
}

func TestAxisTicks(t *testing.T) {
	assert.Equal(t, []float64{0, 5, 10, 15, 20, 25}, AxisTicks(25, AxisSteps))
	assert.Equal(t, []float64{0}, AxisTicks(10, 0))
}

func TestThresholdBarGeometry(t *testing.T) {
	set := bodycomp.Thresholds(bodycomp.LabelWaistToHeight, types.SexMale)
	g := ThresholdBarGeometry(BarSpec{Set: set, Value: 0.55}, 400)

	require.Len(t, g.Bands, 4)
	for i, b := range g.Bands {
		assert.InDelta(t, 100, b.X1-b.X0, 1e-9, "band %d", i)
	}
	assert.Equal(t, bandPalette[0], g.Bands[0].Color)
	assert.Equal(t, bandPalette[len(bandPalette)-1], g.Bands[3].Color)

	require.Len(t, g.Ticks, 3)
	assert.InDelta(t, 80, g.Ticks[0].X, 1e-9)
	assert.InDelta(t, 160, g.Ticks[1].X, 1e-9)
	assert.InDelta(t, 240, g.Ticks[2].X, 1e-9)
	assert.InDelta(t, 200, g.MarkerX, 1e-9)
}

func TestMapValue_Monotonic(t *testing.T) {
	set := bodycomp.Thresholds(bodycomp.LabelWaist, types.SexFemale)
	prev := math.Inf(-1)
	for v := set.Min - 20; v <= set.Max+20; v += 0.5 {
		x := MapValue(v, set.Min, set.Max, 500)
		assert.GreaterOrEqual(t, x, prev, "value %.1f", v)
		assert.GreaterOrEqual(t, x, 0.0)
		assert.LessOrEqual(t, x, 500.0)
		prev = x
	}
}

func TestMapValue_DegenerateScale(t *testing.T) {
	assert.Equal(t, 0.0, MapValue(5, 1, 1, 100))
	assert.Equal(t, 0.0, MapValue(math.NaN(), 0, 1, 100))
}

func TestSilhouetteCallouts(t *testing.T) {
	spec := SpecFromMeasurements(types.Measurements{ArmCm: 35, ChestCm: 100, WaistCm: 80, CalfCm: 38}, UnitCM)
	callouts := SilhouetteCallouts(spec)

	require.Len(t, callouts, 4)
	for _, c := range callouts {
		if c.Anchor.X < 0 {
			assert.Equal(t, SideLeft, c.Side, c.Landmark.String())
			assert.Less(t, c.Label.X, c.Anchor.X)
		} else {
			assert.Equal(t, SideRight, c.Side, c.Landmark.String())
			assert.Greater(t, c.Label.X, c.Anchor.X)
		}
		assert.Equal(t, c.Anchor.Y, c.Label.Y)
	}
	assert.Equal(t, "Arm: 35.0 cm", callouts[0].Text)
	assert.Equal(t, LandmarkCalf, callouts[3].Landmark)
}

func TestSilhouetteCallouts_Inches(t *testing.T) {
	callouts := SilhouetteCallouts(SilhouetteSpec{Values: map[Landmark]float64{LandmarkWaist: 76.2}, Unit: UnitInch})
	require.Len(t, callouts, 1)
	assert.Equal(t, "Waist: 30.0 in", callouts[0].Text)
}

func TestOutlineIsScaled(t *testing.T) {
	out := Outline()
	require.Len(t, out, len(bodyOutline))
	assert.InDelta(t, bodyOutline[3].Y*SilhouetteScale, out[3].Y, 1e-9)
}

func TestRenderPanels(t *testing.T) {
	z := bodycomp.Zones(types.SexFemale)
	tests := []struct {
		name   string
		render func() (Panel, error)
	}{
		{"donut", func() (Panel, error) { return Donut(DonutSpec{LeanPct: 72, FatPct: 28, WeightKg: 61.5}) }},
		{"scatter", func() (Panel, error) { return Scatter(ScatterSpec{LeanIndex: 16, FatIndex: 6.4, Zones: z}) }},
		{"threshold", func() (Panel, error) {
			return ThresholdBar(BarSpec{Set: bodycomp.Thresholds(bodycomp.LabelWaist, types.SexFemale), Value: 84})
		}},
		{"silhouette", func() (Panel, error) {
			return Silhouette(SpecFromMeasurements(types.Measurements{ArmCm: 28, HipCm: 98, ThighCm: 55}, UnitCM))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			panel, err := tt.render()
			require.NoError(t, err)
			assert.Equal(t, tt.name, panel.Name)

			img, err := png.Decode(bytes.NewReader(panel.PNG))
			require.NoError(t, err)
			assert.Equal(t, int(math.Round(panel.WidthMM*PxPerMM)), img.Bounds().Dx())
			assert.Equal(t, int(math.Round(panel.HeightMM*PxPerMM)), img.Bounds().Dy())
		})
	}
}

func TestThresholdBar_InvalidScale(t *testing.T) {
	_, err := ThresholdBar(BarSpec{Set: bodycomp.ThresholdSet{Label: "x", Min: 1, Max: 1, Labels: []string{"a"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scale")
}
