package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// corpus covers the shapes coaches actually type: accents, dash variants,
// set/rep tokens, parentheticals, ordinals and stray punctuation.
var corpus = []string{
	"",
	"   ",
	"Bench Press",
	"12 - Bench Press 3x10",
	"Supino reto (drop-set) 4x12/10/8/6",
	"Agachamento livre – 3x 10 a 12",
	"Leg press 45º [bi-set]",
	"Café da manhã:",
	"PÃO INTEGRAL — 2 fatias",
	"Rosca direta 3×12",
	"1) Remada curvada, pegada pronada.",
	"2 2X3 X 4",
	"Crucifixo inclinado 3 x-10",
	"Açaí (200ml) / banana",
	"ÉLÉVATION LATÉRALE 3X15",
	"straße — ß",
	"\tTabs\tand\nnewlines ",
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Empty string", "", ""},
		{"Uppercases", "bench press", "BENCH PRESS"},
		{"Strips diacritics", "Café da manhã", "CAFE DA MANHA"},
		{"Dash variants become spaces", "bi-set – drop—set", "BI SET DROP SET"},
		{"Removes punctuation", "Obs.: tomar c/ água!", "OBS TOMAR C AGUA"},
		{"Collapses whitespace", "  leg   press\t45 ", "LEG PRESS 45"},
		{"Keeps set rep text", "Squat 4x12/10/8/6", "SQUAT 4X121086"},
		{"Multiplication sign", "Curl 3×12", "CURL 3X12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, input := range corpus {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input %q", input)
	}
}

func TestEssentialName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Empty string", "", ""},
		{"Plain name", "Bench Press", "BENCH PRESS"},
		{"Ordinal and set rep", "12 - Bench Press 3x10", "BENCH PRESS"},
		{"Pyramid reps", "Squat 4x12/10/8/6", "SQUAT"},
		{"Range reps", "Agachamento 3x 10 a 12", "AGACHAMENTO"},
		{"Parenthetical method", "Supino reto (drop-set) 4x12", "SUPINO RETO"},
		{"Bracketed aside", "Leg press [bi-set] 3x15", "LEG PRESS"},
		{"Dotted ordinal", "3. Remada curvada", "REMADA CURVADA"},
		{"Paren ordinal", "4) Rosca direta 3×12", "ROSCA DIRETA"},
		{"Spaced token", "Crucifixo 3 x 10", "CRUCIFIXO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EssentialName(tt.input))
		})
	}
}

func TestEssentialName_EqualAcrossAnnotations(t *testing.T) {
	assert.Equal(t, EssentialName("Bench Press"), EssentialName("12 - Bench Press 3x10"))
}

func TestEssentialName_Idempotent(t *testing.T) {
	for _, input := range corpus {
		once := EssentialName(input)
		assert.Equal(t, once, EssentialName(once), "input %q", input)
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "maria-joao-silva", Slug("Maria João  Silva"))
	assert.Equal(t, "", Slug("  "))
	assert.Equal(t, "ana-2", Slug("Ana #2"))
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"SUPINO", "INCLINADO", "HALTERES"}, Tokens("SUPINO INCLINADO COM HALTERES", 3))
	assert.Empty(t, Tokens("LEG", 3))
}

func TestStripDiacritics(t *testing.T) {
	assert.Equal(t, "Acucar mascavo", StripDiacritics("Açúcar mascavo"))
	assert.Equal(t, "plain", StripDiacritics("plain"))
}
