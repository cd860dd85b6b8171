// Package parsing turns coach-authored plan text into structured meal and training plans.
package parsing

import (
	"strings"

	"github.com/jonathan/coach-report/internal/normalize"
)

// sectionKind is the type of the currently open section.
type sectionKind int

const (
	sectionNone sectionKind = iota
	sectionMeal
	sectionTraining
)

// lineInfo is a classified line with the fields its rule extracted.
type lineInfo struct {
	kind LineKind
	raw  string

	// section headers
	header      sectionKind
	letter      string
	title       string
	description string

	// observations text or substitution target
	text string

	// exercise number and remainder
	number string
	rest   string
}

// classify applies the line rules in priority order; the first match wins.
// open is the kind of section currently open, which decides whether a
// numbered line is an exercise and whether a substitution marker applies.
func classify(line string, v Variant, open sectionKind) lineInfo {
	info := lineInfo{kind: KindText, raw: line}

	if summaryPattern.MatchString(line) {
		info.kind = KindSummary
		return info
	}

	if v.meals() && isMealHeader(line) {
		info.kind = KindSectionHeader
		info.header = sectionMeal
		info.title = strings.TrimRight(strings.TrimSpace(line), ":")
		return info
	}

	if v.training() {
		if m := trainingHeaderPattern.FindStringSubmatch(line); m != nil {
			letter := strings.ToUpper(m[2])
			info.kind = KindSectionHeader
			info.header = sectionTraining
			info.letter = letter
			info.title = strings.ToUpper(collapseSpaces(m[1])) + " " + letter
			info.description = strings.TrimSpace(m[3] + m[4])
			return info
		}
	}

	if v.meals() && shoppingKeywords[normalize.Normalize(line)] {
		info.kind = KindShoppingHeader
		return info
	}

	if m := observationsPattern.FindStringSubmatch(line); m != nil {
		info.kind = KindObservations
		info.text = strings.TrimSpace(strings.TrimLeft(m[1], ":. "))
		return info
	}

	if open != sectionTraining {
		if m := substitutionPattern.FindStringSubmatch(line); m != nil {
			info.kind = KindSubstitutionHeader
			info.text = strings.TrimSpace(m[1])
			return info
		}
	}

	if open == sectionTraining {
		if m := exercisePattern.FindStringSubmatch(line); m != nil {
			info.kind = KindExercise
			info.number = m[1]
			info.rest = strings.TrimSpace(m[2])
			return info
		}
	}

	if bulletPattern.MatchString(line) {
		info.kind = KindBullet
		info.text = stripBullet(line)
		return info
	}

	return info
}

// isMealHeader reports whether the line is a meal keyword, optionally followed by a time.
func isMealHeader(line string) bool {
	n := normalize.Normalize(line)
	if n == "" || len([]rune(line)) > 60 {
		return false
	}
	for _, kw := range mealKeywords {
		if n == kw {
			return true
		}
		if strings.HasPrefix(n, kw+" ") && mealSuffixPattern.MatchString(strings.TrimPrefix(n, kw+" ")) {
			return true
		}
	}
	return false
}

// blocksCapture reports whether a line of this kind may not be swallowed as a
// food portion (rules 2 to 5).
func blocksCapture(k LineKind) bool {
	switch k {
	case KindSectionHeader, KindShoppingHeader, KindObservations, KindSubstitutionHeader:
		return true
	}
	return false
}

func stripBullet(line string) string {
	return strings.TrimSpace(bulletPattern.ReplaceAllString(line, ""))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
