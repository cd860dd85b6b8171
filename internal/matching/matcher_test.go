package matching

import (
	"testing"

	"github.com/jonathan/coach-report/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultMatcher(t *testing.T, opts ...Option) *Matcher {
	t.Helper()
	idx, err := catalog.DefaultIndex()
	require.NoError(t, err)
	return NewMatcher(idx, opts...)
}

func TestMatcher_Tiers(t *testing.T) {
	m := newDefaultMatcher(t)

	tests := []struct {
		name          string
		input         string
		wantCanonical string
		wantTier      Tier
	}{
		{"exact with embedded set rep", "Bench Press 3x10", "Bench Press 3x10", TierExact},
		{"exact ignores case and accents", "bench press 3X10", "Bench Press 3x10", TierExact},
		{"essential strips ordinal and reps", "1 - Bench Press 3x12", "Bench Press 3x10", TierEssential},
		{"essential strips method annotation", "Leg press 45 (drop-set) 3x10", "Leg press 45 4x12", TierEssential},
		{"containment", "Supino inclinado", "Supino inclinado com halteres 3x12", TierContainment},
		{"token overlap", "Remada curvada pronada", "Remada curvada com barra 3x10", TierTokenOverlap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := m.Resolve(tt.input)
			require.True(t, r.Known)
			assert.Equal(t, tt.wantCanonical, r.Canonical)
			assert.Equal(t, tt.wantTier, r.Tier, "tier %s", r.Tier)
		})
	}
}

func TestMatcher_Unknown(t *testing.T) {
	m := newDefaultMatcher(t)

	for _, input := range []string{"UNKNOWN EXERCISE XYZ", "", "   ", "3x10", "(drop-set)"} {
		r := m.Resolve(input)
		assert.False(t, r.Known, "input %q", input)
		assert.False(t, r.HasVideo())
		assert.Equal(t, TierNone, r.Tier)
	}
}

func TestMatcher_KnownWithoutVideo(t *testing.T) {
	m := newDefaultMatcher(t)

	r := m.Resolve("Cadeira abdutora")
	assert.True(t, r.Known)
	assert.Empty(t, r.URL)
	assert.False(t, r.HasVideo())
}

func TestMatcher_Deterministic(t *testing.T) {
	m := newDefaultMatcher(t)
	inputs := []string{"Supino", "Remada curvada pronada", "Agachamento", "Rosca", "UNKNOWN EXERCISE XYZ"}

	for _, input := range inputs {
		first := m.Resolve(input)
		for i := 0; i < 20; i++ {
			assert.Equal(t, first, m.Resolve(input), "input %q", input)
		}
	}
}

func TestMatcher_TokenOverlapNeedsTwoTokens(t *testing.T) {
	idx := catalog.NewIndex(map[string]string{
		"Remada baixa triangulo 3x12": "https://x.example/remada-baixa",
	})
	m := NewMatcher(idx)

	assert.False(t, m.Resolve("Remada alta").Known, "one shared token of two is not enough")
	assert.True(t, m.Resolve("Remada baixa aberta").Known)
	// a single long token only needs to overlap once
	assert.True(t, m.Resolve("Triangulos").Known)
}

func TestMatcher_TokenOverlapPrefersMostShared(t *testing.T) {
	idx := catalog.NewIndex(map[string]string{
		"Remada curvada com barra":         "https://x.example/curvada-barra",
		"Remada curvada no cabo":           "https://x.example/curvada-cabo",
		"Remada pronada unilateral halter": "https://x.example/pronada",
	})
	m := NewMatcher(idx)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		// two entries clear the threshold; the later one shares three tokens
		{"highest overlap wins", "Remada curvada pronada unilateral", "Remada pronada unilateral halter"},
		// both curvada entries share two tokens; the first in name order wins
		{"tie goes to name order", "Remada curvada sentado", "Remada curvada com barra"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := m.Resolve(tt.input)
			require.True(t, r.Known)
			assert.Equal(t, TierTokenOverlap, r.Tier)
			assert.Equal(t, tt.want, r.Canonical)
		})
	}
}

type countingCache struct {
	inner *MemoryCache
	puts  int
	hits  int
}

func (c *countingCache) Get(key string) (Result, bool) {
	r, ok := c.inner.Get(key)
	if ok {
		c.hits++
	}
	return r, ok
}

func (c *countingCache) Put(key string, r Result) {
	c.puts++
	c.inner.Put(key, r)
}

func TestSession_MemoizesIncludingMisses(t *testing.T) {
	m := newDefaultMatcher(t)
	cache := &countingCache{inner: NewMemoryCache()}
	session := m.NewSession(cache)

	first := session.Resolve(SurfacePrint, "UNKNOWN EXERCISE XYZ")
	second := session.Resolve(SurfacePrint, "UNKNOWN EXERCISE XYZ")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.puts)
	assert.Equal(t, 1, cache.hits)

	session.Resolve(SurfaceScreen, "UNKNOWN EXERCISE XYZ")
	assert.Equal(t, 2, cache.puts, "screen and print keep separate entries")
	assert.Equal(t, 2, cache.inner.Len())
}

func TestSession_SurfacesAgree(t *testing.T) {
	m := newDefaultMatcher(t)
	session := m.NewSession(nil)

	for _, name := range []string{"Bench Press 3x10", "Supino inclinado", "Cadeira abdutora", "Nothing Like It"} {
		assert.Equal(t, session.Resolve(SurfacePrint, name), session.Resolve(SurfaceScreen, name))
	}
}

func TestSharedMemo_SharedAcrossSessions(t *testing.T) {
	memo := NewSharedMemo()
	m := newDefaultMatcher(t, WithSharedMemo(memo))

	a := m.NewSession(NewMemoryCache())
	b := m.NewSession(NewMemoryCache())

	ra := a.Resolve(SurfacePrint, "Supino inclinado")
	rb := b.Resolve(SurfaceScreen, "supino  inclinado")
	assert.Equal(t, ra, rb)
	assert.Equal(t, 1, memo.Len())
}

func TestSharedMemo_FirstWriteWins(t *testing.T) {
	memo := NewSharedMemo()
	memo.Put("K", Result{Canonical: "first", Known: true})
	memo.Put("K", Result{Canonical: "second", Known: true})

	r, ok := memo.Get("K")
	require.True(t, ok)
	assert.Equal(t, "first", r.Canonical)
}

func TestTier_String(t *testing.T) {
	assert.Equal(t, "exact", TierExact.String())
	assert.Equal(t, "token-overlap", TierTokenOverlap.String())
	assert.Equal(t, "none", TierNone.String())
}
