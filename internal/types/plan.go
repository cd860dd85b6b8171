// Package types provides type definitions for structured data used throughout the coach-report system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// PlanKind identifies which report a plan text feeds.
type PlanKind string

const (
	// PlanNutrition is a meal-based plan.
	PlanNutrition PlanKind = "nutrition"
	// PlanWorkout is a training-block-based plan.
	PlanWorkout PlanKind = "workout"
	// PlanAssessment carries no plan text of its own, only body measurements.
	PlanAssessment PlanKind = "assessment"
)

// Valid reports whether k is one of the known kinds.
func (k PlanKind) Valid() bool {
	switch k {
	case PlanNutrition, PlanWorkout, PlanAssessment:
		return true
	}
	return false
}

// Plan is the structured form of a coach's plan text.
// Meals and Blocks are in document order. Paragraphs is only populated when no
// section header was recognized and the text fell back to paragraph flow.
type Plan struct {
	Title        string          `json:"title,omitempty"`
	Meals        []Meal          `json:"meals,omitempty"`
	Blocks       []TrainingBlock `json:"blocks,omitempty"`
	ShoppingList []string        `json:"shopping_list,omitempty"`
	Paragraphs   []Paragraph     `json:"paragraphs,omitempty"`
}

// SectionCount returns the number of meal and training-block sections.
func (p *Plan) SectionCount() int {
	if p == nil {
		return 0
	}
	return len(p.Meals) + len(p.Blocks)
}

// IsFallback reports whether the plan was rendered as plain paragraphs.
func (p *Plan) IsFallback() bool {
	return p != nil && p.SectionCount() == 0 && len(p.Paragraphs) > 0
}

// Meal is a named eating occasion.
type Meal struct {
	Name         string     `json:"name"`
	FoodItems    []FoodItem `json:"food_items"`
	Observations string     `json:"observations,omitempty"`
}

// FoodItem is a food with its portion and optional substitutions.
type FoodItem struct {
	Name          string   `json:"name"`
	Portion       string   `json:"portion"`
	Substitutions []string `json:"substitutions"`
}

// TrainingBlock is a lettered group of exercises performed together.
type TrainingBlock struct {
	Letter       string     `json:"letter"`
	Description  string     `json:"description"`
	Title        string     `json:"title"`
	Exercises    []Exercise `json:"exercises"`
	Month        *int       `json:"month,omitempty"`
	Observations string     `json:"observations,omitempty"`
}

// Exercise is one movement within a training block.
type Exercise struct {
	Number      string `json:"number"`
	Name        string `json:"name"`
	Sets        string `json:"sets"`
	Reps        string `json:"reps"`
	MuscleGroup string `json:"muscle_group,omitempty"`
	Volume      string `json:"volume,omitempty"`
	Intensity   string `json:"intensity,omitempty"`
}

// Paragraph is one line of fallback paragraph-flow output.
type Paragraph struct {
	Heading bool   `json:"heading"`
	Text    string `json:"text"`
}
