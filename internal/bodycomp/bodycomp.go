// Package bodycomp derives body-composition metrics and risk thresholds from a client profile.
package bodycomp

import (
	"fmt"

	"github.com/jonathan/coach-report/internal/logger"
	"github.com/jonathan/coach-report/internal/types"
)

// HipFloorCm is the smallest hip circumference accepted as a real measurement.
const HipFloorCm = 60.0

// Metrics are the values the body section charts are drawn from.
type Metrics struct {
	LeanPct float64 `json:"lean_pct"`
	FatPct  float64 `json:"fat_pct"`
	LeanKg  float64 `json:"lean_kg"`
	FatKg   float64 `json:"fat_kg"`
	// FFMI and FMI are lean and fat mass divided by height squared (kg/m²).
	FFMI float64 `json:"ffmi"`
	FMI  float64 `json:"fmi"`

	WaistCm       float64 `json:"waist_cm,omitempty"`
	HipCm         float64 `json:"hip_cm,omitempty"`
	WaistToHip    float64 `json:"waist_to_hip,omitempty"`
	WaistToHeight float64 `json:"waist_to_height,omitempty"`

	Corrections []Correction `json:"corrections,omitempty"`
}

// HasComposition reports whether lean and fat values were computed.
func (m Metrics) HasComposition() bool {
	return m.LeanKg > 0 || m.FatKg > 0
}

// Correction records an implausible input replaced by a derived value.
type Correction struct {
	Field       string  `json:"field"`
	Original    float64 `json:"original"`
	Substituted float64 `json:"substituted"`
	Reason      string  `json:"reason"`
}

func (c Correction) String() string {
	return fmt.Sprintf("%s %.1f replaced by %.1f: %s", c.Field, c.Original, c.Substituted, c.Reason)
}

// TypicalWaistToHip is the population waist-to-hip ratio used to estimate a missing hip.
func TypicalWaistToHip(sex string) float64 {
	if sex == types.SexFemale {
		return 0.80
	}
	return 0.90
}

// Compute derives Metrics from p. Implausible measurements are corrected and
// logged as warnings; Compute never fails.
func Compute(p *types.Profile, log *logger.Logger) Metrics {
	if log == nil {
		log = logger.NewNop()
	}
	var m Metrics
	if p == nil {
		return m
	}

	if p.HasComposition() {
		m.FatPct = p.BodyFatPct
		m.LeanPct = 100 - p.BodyFatPct
		m.FatKg = p.WeightKg * p.BodyFatPct / 100
		m.LeanKg = p.WeightKg - m.FatKg
		h2 := p.HeightM * p.HeightM
		m.FFMI = m.LeanKg / h2
		m.FMI = m.FatKg / h2
	}

	m.WaistCm = p.Measurements.WaistCm
	m.HipCm = p.Measurements.HipCm

	if m.WaistCm > 0 && m.HipCm > 0 && m.HipCm < HipFloorCm {
		c := Correction{
			Field:       "hip_cm",
			Original:    m.HipCm,
			Substituted: m.WaistCm / TypicalWaistToHip(p.Sex),
			Reason:      fmt.Sprintf("below plausible floor of %.0f cm, estimated from waist", HipFloorCm),
		}
		log.Warn("implausible hip measurement corrected",
			"client", p.Name,
			"original_cm", c.Original,
			"substituted_cm", c.Substituted,
			"sex", p.Sex,
		)
		m.HipCm = c.Substituted
		m.Corrections = append(m.Corrections, c)
	}

	if m.WaistCm > 0 && m.HipCm > 0 {
		m.WaistToHip = m.WaistCm / m.HipCm
	}
	if m.WaistCm > 0 && p.HeightM > 0 {
		m.WaistToHeight = m.WaistCm / (p.HeightM * 100)
	}
	return m
}
