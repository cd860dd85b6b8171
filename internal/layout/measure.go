package layout

// Measurer wraps text to a width in the current font.
type Measurer interface {
	SplitText(text string, width float64) []string
}

// Padding is the inset of a text panel, in millimeters.
type Padding struct {
	Top, Bottom, Left, Right float64
}

// WrappedHeight returns the height of a panel holding text wrapped to width
// minus the side padding. It is computed before anything is drawn so a
// background panel can be sized to contain all of its lines.
func WrappedHeight(m Measurer, text string, width, lineHeight float64, pad Padding) (float64, []string) {
	inner := width - pad.Left - pad.Right
	if inner <= 0 {
		inner = width
	}
	lines := m.SplitText(text, inner)
	n := len(lines)
	if n == 0 {
		n = 1
	}
	return pad.Top + float64(n)*lineHeight + pad.Bottom, lines
}

// WrappedListHeight measures several items, each wrapped separately, as one panel.
func WrappedListHeight(m Measurer, items []string, width, lineHeight float64, pad Padding) (float64, [][]string) {
	inner := width - pad.Left - pad.Right
	if inner <= 0 {
		inner = width
	}
	wrapped := make([][]string, 0, len(items))
	n := 0
	for _, it := range items {
		lines := m.SplitText(it, inner)
		if len(lines) == 0 {
			lines = []string{""}
		}
		n += len(lines)
		wrapped = append(wrapped, lines)
	}
	return pad.Top + float64(n)*lineHeight + pad.Bottom, wrapped
}
