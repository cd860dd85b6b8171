// Package parsing turns coach-authored plan text into structured meal and training plans.
package parsing

import (
	"strings"

	"github.com/jonathan/coach-report/internal/normalize"
)

// repairDuplicateTitle collapses a title whose phrase is written twice in a row,
// "Plano 1800 kcal Plano 1800 kcal" -> "Plano 1800 kcal". Separator-only words
// between the halves are ignored. Titles without the pattern are returned unchanged.
func repairDuplicateTitle(title string) string {
	words := strings.Fields(title)

	// indexes of words that carry content after normalization
	content := make([]int, 0, len(words))
	for i, w := range words {
		if normalize.Normalize(w) != "" {
			content = append(content, i)
		}
	}

	n := len(content)
	if n < 2 || n%2 != 0 {
		return title
	}

	half := n / 2
	for i := 0; i < half; i++ {
		if normalize.Normalize(words[content[i]]) != normalize.Normalize(words[content[half+i]]) {
			return title
		}
	}

	first := strings.Join(words[:content[half-1]+1], " ")
	return strings.TrimSpace(first)
}
