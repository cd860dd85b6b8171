// Package types provides type definitions for structured data used throughout the coach-report system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

// Sex values accepted in a Profile.
const (
	SexMale   = "male"
	SexFemale = "female"
)

// Profile is the client record handed to the report pipeline.
type Profile struct {
	Name         string       `json:"name" validate:"required,min=1"`
	Sex          string       `json:"sex" validate:"required,oneof=male female"`
	HeightM      float64      `json:"height_m" validate:"required,gt=0.5,lt=2.8"`
	WeightKg     float64      `json:"weight_kg" validate:"required,gt=10,lt=400"`
	BodyFatPct   float64      `json:"body_fat_pct,omitempty" validate:"gte=0,lt=80"`
	Measurements Measurements `json:"measurements"`
}

// Measurements holds circumferences in centimeters. Zero means not measured.
type Measurements struct {
	ArmCm   float64 `json:"arm_cm,omitempty" validate:"gte=0"`
	ChestCm float64 `json:"chest_cm,omitempty" validate:"gte=0"`
	WaistCm float64 `json:"waist_cm,omitempty" validate:"gte=0"`
	HipCm   float64 `json:"hip_cm,omitempty" validate:"gte=0"`
	ThighCm float64 `json:"thigh_cm,omitempty" validate:"gte=0"`
	CalfCm  float64 `json:"calf_cm,omitempty" validate:"gte=0"`
}

// HasComposition reports whether body-composition charts can be drawn.
func (p *Profile) HasComposition() bool {
	return p != nil && p.BodyFatPct > 0 && p.WeightKg > 0 && p.HeightM > 0
}

// Validate validates the Profile using the validator.
func (p *Profile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
