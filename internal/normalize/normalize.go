// Package normalize provides the text transforms shared by the plan parser and the exercise matcher.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// dashReplacer maps every dash variant authors paste from word processors to a space,
	// and the multiplication sign to the letter used in set x rep tokens
	dashReplacer = strings.NewReplacer(
		"-", " ",
		"‐", " ",
		"‑", " ",
		"‒", " ",
		"–", " ",
		"—", " ",
		"―", " ",
		"−", " ",
		"×", "X",
	)

	// setRepPattern matches set x rep tokens on normalized (uppercase) text: 3X10, 4 X 12/10/8, 3X 10 A 12
	setRepPattern = regexp.MustCompile(`\b\d+\s*[X×]\s*\d+(?:\s*/\s*\d+)*(?:\s+(?:A|TO)\s+\d+)?`)

	// parenPattern matches parenthetical and bracketed asides
	parenPattern = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)

	// ordinalPattern matches a leading "12 - ", "3. " or "4) " prefix
	ordinalPattern = regexp.MustCompile(`^\s*\d+\s*[-\x{2013}\x{2014}.)]\s*`)
)

// StripDiacritics removes combining marks, turning "Açúcar" into "Acucar".
func StripDiacritics(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return result
}

// Normalize uppercases text, strips diacritics, turns dashes into spaces,
// drops the remaining punctuation and collapses whitespace.
// Normalize(Normalize(x)) == Normalize(x) for every x.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	upper := StripDiacritics(strings.ToUpper(text))
	upper = dashReplacer.Replace(upper)

	var sb strings.Builder
	sb.Grow(len(upper))
	for _, r := range upper {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(unicode.ToUpper(r))
		case unicode.IsSpace(r):
			sb.WriteRune(' ')
		}
	}

	return collapse(sb.String())
}

// EssentialName reduces an exercise or food name to the part that identifies it:
// ordinal prefix, parenthetical asides and set/rep tokens are removed and the
// rest is normalized. "12 - Bench Press 3x10 (drop-set)" becomes "BENCH PRESS".
func EssentialName(text string) string {
	if text == "" {
		return ""
	}

	s := ordinalPattern.ReplaceAllString(text, "")
	s = parenPattern.ReplaceAllString(s, " ")
	s = Normalize(s)

	// Removing one token can expose another, so run to a fixed point.
	for {
		next := setRepPattern.ReplaceAllString(s, " ")
		if next == s {
			break
		}
		s = next
	}

	return collapse(s)
}

// Slug turns text into a lowercase, dash-separated, ASCII-friendly token for file names.
func Slug(text string) string {
	n := Normalize(text)
	if n == "" {
		return ""
	}
	return strings.ToLower(strings.ReplaceAll(n, " ", "-"))
}

// Tokens splits the essential name into words longer than minLen runes.
func Tokens(essential string, minLen int) []string {
	fields := strings.Fields(essential)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) > minLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
