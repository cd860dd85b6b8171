// Package bodycomp derives body-composition metrics and risk thresholds from a client profile.
package bodycomp

import (
	"strings"

	"github.com/jonathan/coach-report/internal/types"
)

// Threshold set labels.
const (
	LabelWaist         = "waist"
	LabelWaistToHip    = "waist-to-hip"
	LabelWaistToHeight = "waist-to-height"
)

// ThresholdSet describes a risk scale: len(Labels) bands separated by Points,
// drawn over [Min, Max].
type ThresholdSet struct {
	Label  string
	Unit   string
	Min    float64
	Max    float64
	Points []float64
	Labels []string
}

// Thresholds selects the threshold set for a metric label. Unknown labels get
// a generic low/high pair over [0, 1].
func Thresholds(label, sex string) ThresholdSet {
	female := sex == types.SexFemale

	switch strings.ToLower(strings.TrimSpace(label)) {
	case LabelWaist:
		if female {
			return ThresholdSet{
				Label: LabelWaist, Unit: "cm", Min: 50, Max: 120,
				Points: []float64{80, 88},
				Labels: []string{"Low risk", "Increased", "High"},
			}
		}
		return ThresholdSet{
			Label: LabelWaist, Unit: "cm", Min: 60, Max: 130,
			Points: []float64{94, 102},
			Labels: []string{"Low risk", "Increased", "High"},
		}

	case LabelWaistToHip:
		if female {
			return ThresholdSet{
				Label: LabelWaistToHip, Min: 0.6, Max: 1.1,
				Points: []float64{0.80, 0.85},
				Labels: []string{"Low risk", "Moderate", "High"},
			}
		}
		return ThresholdSet{
			Label: LabelWaistToHip, Min: 0.7, Max: 1.2,
			Points: []float64{0.90, 1.00},
			Labels: []string{"Low risk", "Moderate", "High"},
		}

	case LabelWaistToHeight:
		return ThresholdSet{
			Label: LabelWaistToHeight, Min: 0.3, Max: 0.8,
			Points: []float64{0.40, 0.50, 0.60},
			Labels: []string{"Underweight", "Healthy", "Increased", "High"},
		}
	}

	return Generic(label, 0, 1)
}

// Generic is a two-band low/high scale split at the midpoint of [min, max].
func Generic(label string, min, max float64) ThresholdSet {
	return ThresholdSet{
		Label:  label,
		Min:    min,
		Max:    max,
		Points: []float64{(min + max) / 2},
		Labels: []string{"Low", "High"},
	}
}

// Band returns the index of the band value falls in.
func (t ThresholdSet) Band(value float64) int {
	i := 0
	for _, p := range t.Points {
		if value >= p {
			i++
		}
	}
	return i
}

// ScatterZones are the cut points for the lean-index / fat-index chart.
type ScatterZones struct {
	MaxX    float64 // lean mass index axis maximum
	MaxY    float64 // fat mass index axis maximum
	LeanCut float64 // low/high lean boundary
	FatLow  float64 // low/adequate fat boundary
	FatHigh float64 // adequate/high fat boundary
}

// Zones returns the sex-specific scatter partition.
func Zones(sex string) ScatterZones {
	if sex == types.SexFemale {
		return ScatterZones{MaxX: 25, MaxY: 16, LeanCut: 15, FatLow: 5, FatHigh: 9}
	}
	return ScatterZones{MaxX: 28, MaxY: 12, LeanCut: 18, FatLow: 3, FatHigh: 6}
}
