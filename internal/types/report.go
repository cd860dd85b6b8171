// Package types provides type definitions for structured data used throughout the coach-report system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// Artifact is a finished, serialized report.
type Artifact struct {
	ID        uuid.UUID `json:"id"`
	Kind      PlanKind  `json:"kind"`
	FileName  string    `json:"file_name"`
	Client    string    `json:"client"`
	Pages     int       `json:"pages"`
	Warnings  []string  `json:"warnings,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Content   []byte    `json:"-"`
}

// Placement records where the paginator put one block.
type Placement struct {
	Page   int     `json:"page"`
	Y      float64 `json:"y"`
	Height float64 `json:"height"`
	Kind   string  `json:"kind"`
}
