// Package parsing turns coach-authored plan text into structured meal and training plans.
package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/coach-report/internal/types"
)

var (
	// setRepPattern matches "3x10", "4 x 12/10/8/6", "3x 10 a 12" inside an exercise line
	setRepPattern = regexp.MustCompile(`(?i)\b(\d+)\s*[x×]\s*(\d+(?:\s*/\s*\d+)*(?:\s+(?:a|to)\s+\d+)?)`)

	// bracketSetRepPattern matches "[3x 10-12]" or "(4x failure)"
	bracketSetRepPattern = regexp.MustCompile(`(?i)[\[(]\s*(\d+)\s*[x×]\s*([^\])]+?)\s*[\])]`)

	// standaloneSetRepPattern matches a whole line holding only a set/rep token
	standaloneSetRepPattern = regexp.MustCompile(`(?i)^(\d+)\s*[x×]\s*(\d+(?:\s*/\s*\d+)*(?:\s+(?:a|to)\s+\d+)?)$`)

	slashSpacing = regexp.MustCompile(`\s*/\s*`)
)

// parseExercise builds an Exercise from a numbered line. next is the following
// non-blank line, if any; consumed reports whether it held this exercise's
// set/rep token and must be skipped.
func parseExercise(number, rest, next string, defaults Options) (ex types.Exercise, consumed bool) {
	ex.Number = number

	cells := strings.Split(rest, "|")
	body := strings.TrimSpace(cells[0])
	if len(cells) > 1 {
		ex.MuscleGroup = strings.TrimSpace(cells[1])
	}
	if len(cells) > 2 {
		ex.Volume = strings.TrimSpace(cells[2])
	}
	if len(cells) > 3 {
		ex.Intensity = strings.TrimSpace(cells[3])
	}

	primary := setRepPattern.FindStringSubmatchIndex(body)
	bracket := bracketSetRepPattern.FindStringSubmatchIndex(body)
	// a token written inside brackets belongs to the bracketed form: "[3x 10-12]"
	if primary != nil && bracket != nil && primary[0] >= bracket[0] && primary[1] <= bracket[1] {
		primary = nil
	}

	for _, loc := range [][]int{primary, bracket} {
		if loc == nil {
			continue
		}
		ex.Sets = body[loc[2]:loc[3]] + "x"
		ex.Reps = compactReps(body[loc[4]:loc[5]])
		ex.Name = cleanName(body[:loc[0]] + " " + body[loc[1]:])
		return ex, false
	}

	ex.Name = cleanName(body)
	if m := standaloneSetRepPattern.FindStringSubmatch(strings.TrimSpace(next)); m != nil {
		ex.Sets = m[1] + "x"
		ex.Reps = compactReps(m[2])
		return ex, true
	}

	ex.Sets = defaults.DefaultSets
	ex.Reps = defaults.DefaultReps
	return ex, false
}

func compactReps(reps string) string {
	return collapseSpaces(slashSpacing.ReplaceAllString(strings.TrimSpace(reps), "/"))
}

// cleanName collapses whitespace and trims separators left behind by token removal.
func cleanName(name string) string {
	return strings.Trim(collapseSpaces(name), " -–—:;,")
}
