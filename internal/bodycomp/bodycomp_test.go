package bodycomp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/coach-report/internal/logger"
	"github.com/jonathan/coach-report/internal/types"
)

func TestCompute(t *testing.T) {
	p := &types.Profile{
		Name: "Ana", Sex: types.SexFemale, HeightM: 1.60, WeightKg: 64, BodyFatPct: 25,
		Measurements: types.Measurements{WaistCm: 72, HipCm: 96},
	}

	m := Compute(p, nil)

	assert.InDelta(t, 75, m.LeanPct, 1e-9)
	assert.InDelta(t, 25, m.FatPct, 1e-9)
	assert.InDelta(t, 16, m.FatKg, 1e-9)
	assert.InDelta(t, 48, m.LeanKg, 1e-9)
	assert.InDelta(t, 48/(1.6*1.6), m.FFMI, 1e-9)
	assert.InDelta(t, 16/(1.6*1.6), m.FMI, 1e-9)
	assert.InDelta(t, 0.75, m.WaistToHip, 1e-9)
	assert.InDelta(t, 0.45, m.WaistToHeight, 1e-9)
	assert.Empty(t, m.Corrections)
	assert.True(t, m.HasComposition())
}

func TestCompute_NoBodyFat(t *testing.T) {
	m := Compute(&types.Profile{Sex: types.SexMale, HeightM: 1.8, WeightKg: 80}, nil)
	assert.False(t, m.HasComposition())
	assert.Zero(t, m.WaistToHip)
}

func TestCompute_NilProfile(t *testing.T) {
	assert.Equal(t, Metrics{}, Compute(nil, nil))
}

func TestCompute_ImplausibleHip(t *testing.T) {
	tests := []struct {
		name string
		sex  string
		hip  float64
		want float64
	}{
		{"male", types.SexMale, 38, 90 / 0.90},
		{"female", types.SexFemale, 12, 90 / 0.80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			log := logger.FromZap(zap.New(core))

			p := &types.Profile{
				Name: "Client", Sex: tt.sex, HeightM: 1.75, WeightKg: 80,
				Measurements: types.Measurements{WaistCm: 90, HipCm: tt.hip},
			}
			m := Compute(p, log)

			assert.InDelta(t, tt.want, m.HipCm, 1e-9)
			assert.InDelta(t, 90/tt.want, m.WaistToHip, 1e-9)
			require.Len(t, m.Corrections, 1)
			assert.Equal(t, "hip_cm", m.Corrections[0].Field)
			assert.Equal(t, tt.hip, m.Corrections[0].Original)

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, "implausible hip measurement corrected", entry.Message)
			assert.Equal(t, tt.hip, entry.ContextMap()["original_cm"])
		})
	}
}

func TestCompute_HipAtFloorIsKept(t *testing.T) {
	p := &types.Profile{Sex: types.SexMale, HeightM: 1.75, WeightKg: 80,
		Measurements: types.Measurements{WaistCm: 90, HipCm: HipFloorCm}}
	m := Compute(p, nil)
	assert.Equal(t, HipFloorCm, m.HipCm)
	assert.Empty(t, m.Corrections)
}

func TestThresholds(t *testing.T) {
	tests := []struct {
		label  string
		sex    string
		points []float64
		bands  int
	}{
		{LabelWaist, types.SexMale, []float64{94, 102}, 3},
		{LabelWaist, types.SexFemale, []float64{80, 88}, 3},
		{"Waist-To-Hip", types.SexMale, []float64{0.90, 1.00}, 3},
		{LabelWaistToHeight, types.SexFemale, []float64{0.40, 0.50, 0.60}, 4},
		{"grip strength", types.SexMale, []float64{0.5}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.label+"/"+tt.sex, func(t *testing.T) {
			set := Thresholds(tt.label, tt.sex)
			assert.Equal(t, tt.points, set.Points)
			assert.Len(t, set.Labels, tt.bands)
			assert.Less(t, set.Min, set.Points[0])
			assert.Greater(t, set.Max, set.Points[len(set.Points)-1])
		})
	}
}

func TestThresholdSet_Band(t *testing.T) {
	set := Thresholds(LabelWaistToHeight, types.SexMale)
	assert.Equal(t, 0, set.Band(0.35))
	assert.Equal(t, 1, set.Band(0.40))
	assert.Equal(t, 2, set.Band(0.55))
	assert.Equal(t, 3, set.Band(0.75))
}

func TestZones(t *testing.T) {
	for _, sex := range []string{types.SexMale, types.SexFemale} {
		z := Zones(sex)
		assert.Less(t, z.LeanCut, z.MaxX)
		assert.Less(t, z.FatLow, z.FatHigh)
		assert.Less(t, z.FatHigh, z.MaxY)
	}
}
