// Package parsing turns coach-authored plan text into structured meal and training plans.
package parsing

import (
	"strings"
	"unicode"

	"github.com/jonathan/coach-report/internal/types"
)

const maxHeadingRunes = 60

// paragraphs renders lines verbatim as paragraph flow, marking heading-shaped lines.
func paragraphs(lines []string) []types.Paragraph {
	out := make([]types.Paragraph, 0, len(lines))
	for _, l := range lines {
		out = append(out, types.Paragraph{Heading: isHeadingLine(l), Text: l})
	}
	return out
}

// isHeadingLine reports whether a line is short, has no final period, and is
// written in capitals or title case.
func isHeadingLine(line string) bool {
	if len([]rune(line)) > maxHeadingRunes || strings.HasSuffix(line, ".") {
		return false
	}

	words := strings.Fields(line)
	letters := 0
	allUpper := true
	titleCase := true
	for _, w := range words {
		first := true
		for _, r := range w {
			if !unicode.IsLetter(r) {
				continue
			}
			letters++
			if unicode.IsLower(r) {
				allUpper = false
				if first && len([]rune(w)) > 3 {
					titleCase = false
				}
			}
			first = false
		}
	}
	if letters == 0 {
		return false
	}
	return allUpper || titleCase
}
