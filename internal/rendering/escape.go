// Package rendering lays out parsed plans and body metrics as a paginated PDF report.
package rendering

import "strings"

// EscapePDF maps text onto the Latin-1 range the core PDF fonts can encode.
// Typographic punctuation is folded to its ASCII form; anything else outside
// Latin-1 becomes '?'.
func EscapePDF(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch r {
		case '‐', '‑', '‒', '–', '—', '―', '−':
			result.WriteByte('-')
		case '‘', '’', '‚', '′':
			result.WriteByte('\'')
		case '“', '”', '„', '″':
			result.WriteByte('"')
		case '•', '▪', '◦', '►', '‣':
			result.WriteByte('-')
		case '…':
			result.WriteString("...")
		case '×':
			result.WriteByte('x')
		case '≤':
			result.WriteString("<=")
		case '≥':
			result.WriteString(">=")
		case '\t':
			result.WriteByte(' ')
		case '\u00A0', '\u2007', '\u202F':
			result.WriteByte(' ')
		default:
			switch {
			case r < 0x20 && r != '\n':
				// drop control characters
			case r >= 0x7F && r < 0xA0, r > 0xFF:
				result.WriteByte('?')
			default:
				result.WriteRune(r)
			}
		}
	}

	return result.String()
}
