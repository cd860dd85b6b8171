// Package pipeline assembles finished reports: it parses plan text, resolves
// exercise videos, lays the report out and serializes it.
package pipeline

import (
	"time"

	"github.com/jonathan/coach-report/internal/normalize"
	"github.com/jonathan/coach-report/internal/types"
)

const unnamedClient = "client"

// FileName derives the artifact name "<kind>-<client-slug>-<YYYY-MM-DD>.pdf".
func FileName(kind types.PlanKind, client string, date time.Time) string {
	slug := normalize.Slug(client)
	if slug == "" {
		slug = unnamedClient
	}
	return string(kind) + "-" + slug + "-" + date.Format("2006-01-02") + ".pdf"
}

// Title is the header-band title for a report kind.
func Title(kind types.PlanKind) string {
	switch kind {
	case types.PlanNutrition:
		return "Nutrition Plan"
	case types.PlanWorkout:
		return "Training Plan"
	case types.PlanAssessment:
		return "Body Assessment"
	}
	return "Report"
}
