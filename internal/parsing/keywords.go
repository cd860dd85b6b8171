// Package parsing turns coach-authored plan text into structured meal and training plans.
package parsing

import (
	"regexp"
	"sort"

	"github.com/jonathan/coach-report/internal/normalize"
)

// Variant selects which section headers the parser recognizes.
type Variant int

const (
	// VariantAuto recognizes both meal and training-block headers.
	VariantAuto Variant = iota
	// VariantNutrition recognizes meal headers and the shopping list.
	VariantNutrition
	// VariantWorkout recognizes training-block headers.
	VariantWorkout
)

func (v Variant) meals() bool    { return v == VariantAuto || v == VariantNutrition }
func (v Variant) training() bool { return v == VariantAuto || v == VariantWorkout }

// ParseVariant maps a CLI value to a Variant.
func ParseVariant(s string) (Variant, bool) {
	switch s {
	case "", "auto":
		return VariantAuto, true
	case "nutrition":
		return VariantNutrition, true
	case "workout":
		return VariantWorkout, true
	}
	return VariantAuto, false
}

// mealKeywords are normalized meal names, English and Portuguese.
// Sorted longest first so "LANCHE DA TARDE" wins over "LANCHE".
var mealKeywords = sortLongestFirst([]string{
	"BREAKFAST",
	"MORNING SNACK",
	"LUNCH",
	"AFTERNOON SNACK",
	"PRE WORKOUT",
	"POST WORKOUT",
	"DINNER",
	"SUPPER",
	"EVENING SNACK",
	"SNACK",
	"MEAL",
	"CAFE DA MANHA",
	"DESJEJUM",
	"LANCHE DA MANHA",
	"COLACAO",
	"ALMOCO",
	"LANCHE DA TARDE",
	"LANCHE DA NOITE",
	"LANCHE",
	"PRE TREINO",
	"POS TREINO",
	"JANTAR",
	"CEIA",
	"REFEICAO",
})

// shoppingKeywords are normalized shopping-list headers.
var shoppingKeywords = map[string]bool{
	"SHOPPING LIST":    true,
	"GROCERY LIST":     true,
	"LISTA DE COMPRAS": true,
	"LISTA DE MERCADO": true,
}

var (
	// summaryPattern finds a calorie figure anywhere in the line
	summaryPattern = regexp.MustCompile(`(?i)\d[\d.,]*\s*kcal`)

	// mealSuffixPattern is what may follow a meal keyword: a number or a time such as 7:00, 12h, 07h30 am
	mealSuffixPattern = regexp.MustCompile(`^\d[\dH]*(?: ?(?:AM|PM|H|HS|HRS))?$`)

	// trainingHeaderPattern matches "TRAINING BLOCK A: Month 1", "Treino B - Mes 2", "TREINO C"
	trainingHeaderPattern = regexp.MustCompile(`(?i)^(training\s+block|workout|treino)\s+([a-z])(?:\s*[:\-\x{2013}\x{2014}]\s*(.*)|\s+\((.*)\))?\s*$`)

	// observationsPattern matches "Observations:", "Obs.:", "Observações:"
	observationsPattern = regexp.MustCompile(`(?i)^(?:observations?|notes?|observa[çc][õo]es|observa[çc][ãa]o|obs)\s*[:.]\s*(.*)$`)

	// substitutionPattern matches "Options for Oatmeal:", "Opções para arroz:"
	substitutionPattern = regexp.MustCompile(`(?i)^(?:options?|substitutions?|op[çc][õo]es|substitui[çc][õo]es)\s+(?:for|para|de)\s+(.+?)\s*:?\s*$`)

	// exercisePattern matches "1 - Bench Press 3x10", "2. Squat", "3) Row"
	exercisePattern = regexp.MustCompile(`^(\d+)\s*[-\x{2013}\x{2014}.)]\s*(.+)$`)

	// bulletPattern matches a leading bullet glyph followed by whitespace
	bulletPattern = regexp.MustCompile(`^(?:[-*•·▪◦►>]|\x{2013})\s+`)

	// monthPattern extracts the month number from a block description
	monthPattern = regexp.MustCompile(`(?i)\b(?:month|m[eê]s)\s*(\d+)`)
)

func sortLongestFirst(words []string) []string {
	sorted := make([]string, len(words))
	for i, w := range words {
		sorted[i] = normalize.Normalize(w)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	return sorted
}
