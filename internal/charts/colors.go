package charts

import "image/color"

var (
	colorLean    = color.NRGBA{R: 0x2E, G: 0x86, B: 0x5F, A: 0xFF}
	colorFat     = color.NRGBA{R: 0xE0, G: 0x7A, B: 0x2F, A: 0xFF}
	colorInk     = color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xFF}
	colorMuted   = color.NRGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xFF}
	colorOutline = color.NRGBA{R: 0x55, G: 0x60, B: 0x70, A: 0xFF}
	colorBody    = color.NRGBA{R: 0xE8, G: 0xEC, B: 0xF1, A: 0xFF}

	// bandPalette runs from favorable to unfavorable.
	bandPalette = []color.NRGBA{
		{R: 0x4C, G: 0xAF, B: 0x50, A: 0xFF},
		{R: 0xCD, G: 0xDC, B: 0x39, A: 0xFF},
		{R: 0xFF, G: 0xC1, B: 0x07, A: 0xFF},
		{R: 0xFF, G: 0x98, B: 0x00, A: 0xFF},
		{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF},
	}
)

// bandColors spreads the palette over n bands so the first is always green
// and the last always red.
func bandColors(n int) []color.NRGBA {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []color.NRGBA{bandPalette[0]}
	}
	out := make([]color.NRGBA, n)
	last := len(bandPalette) - 1
	for i := range out {
		out[i] = bandPalette[i*last/(n-1)]
	}
	return out
}
