// Package matching resolves free-text exercise names to catalog entries.
package matching

import (
	"strings"

	"github.com/jonathan/coach-report/internal/catalog"
	"github.com/jonathan/coach-report/internal/normalize"
)

// Tier records which rule produced a match.
type Tier int

const (
	TierNone Tier = iota
	TierExact
	TierEssential
	TierContainment
	TierTokenOverlap
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierEssential:
		return "essential"
	case TierContainment:
		return "containment"
	case TierTokenOverlap:
		return "token-overlap"
	default:
		return "none"
	}
}

// minTokenLen is the length a word must exceed to count in token overlap.
const minTokenLen = 3

// Result is the outcome of one resolution. Known is false when nothing in the
// catalog matched; a Known result may still have an empty URL.
type Result struct {
	Canonical string
	URL       string
	Known     bool
	Tier      Tier
}

// HasVideo reports whether there is a demonstration link to show.
func (r Result) HasVideo() bool {
	return r.Known && r.URL != ""
}

// preparedEntry caches the normalized forms of a catalog row.
type preparedEntry struct {
	entry      catalog.Entry
	normalized string
	essential  string
	tokens     []string
}

// Matcher holds a prepared catalog. It is read-only after construction and can
// be shared by any number of sessions.
type Matcher struct {
	entries []preparedEntry
	shared  Cache
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithSharedMemo adds a cross-render memo consulted after the session cache.
// memo must be safe for concurrent use; SharedMemo is the in-process one.
func WithSharedMemo(memo Cache) Option {
	return func(m *Matcher) {
		m.shared = memo
	}
}

// NewMatcher prepares idx for matching.
func NewMatcher(idx *catalog.Index, opts ...Option) *Matcher {
	entries := idx.Entries()
	m := &Matcher{entries: make([]preparedEntry, 0, len(entries))}
	for _, e := range entries {
		essential := normalize.EssentialName(e.Name)
		m.entries = append(m.entries, preparedEntry{
			entry:      e,
			normalized: normalize.Normalize(e.Name),
			essential:  essential,
			tokens:     normalize.Tokens(essential, minTokenLen),
		})
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Session is one render's view of the matcher with its own cache.
type Session struct {
	matcher *Matcher
	cache   Cache
}

// NewSession binds a cache to the matcher. A nil cache gets a fresh MemoryCache.
func (m *Matcher) NewSession(cache Cache) *Session {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Session{matcher: m, cache: cache}
}

// Resolve returns the catalog entry for rawName as seen from surface,
// memoizing the result, including misses.
func (s *Session) Resolve(surface Surface, rawName string) Result {
	key := string(surface) + "|" + rawName
	if r, ok := s.cache.Get(key); ok {
		return r
	}

	normalized := normalize.Normalize(rawName)
	essential := normalize.EssentialName(rawName)
	// The tiers only ever look at these two forms, so together they are a
	// complete key for the shared memo.
	sharedKey := normalized + "|" + essential

	var result Result
	cached := false
	if s.matcher.shared != nil {
		result, cached = s.matcher.shared.Get(sharedKey)
	}
	if !cached {
		result = s.matcher.resolveForms(normalized, essential)
		if s.matcher.shared != nil {
			s.matcher.shared.Put(sharedKey, result)
		}
	}

	s.cache.Put(key, result)
	return result
}

// Resolve runs the tiers without any caching.
func (m *Matcher) Resolve(rawName string) Result {
	return m.resolveForms(normalize.Normalize(rawName), normalize.EssentialName(rawName))
}

func (m *Matcher) resolveForms(normalized, essential string) Result {
	if normalized == "" {
		return Result{}
	}

	for _, e := range m.entries {
		if e.normalized == normalized {
			return found(e, TierExact)
		}
	}

	if essential == "" {
		return Result{}
	}

	for _, e := range m.entries {
		if e.essential == essential {
			return found(e, TierEssential)
		}
	}

	for _, e := range m.entries {
		if e.essential == "" {
			continue
		}
		if strings.Contains(e.essential, essential) || strings.Contains(essential, e.essential) {
			return found(e, TierContainment)
		}
	}

	tokens := normalize.Tokens(essential, minTokenLen)
	if len(tokens) == 0 {
		return Result{}
	}
	need := min(2, len(tokens))

	// highest overlap wins; ties keep the first entry in name order
	best := -1
	bestOverlap := 0
	for i, e := range m.entries {
		overlap := tokenOverlap(tokens, e.tokens)
		if overlap >= need && overlap > bestOverlap {
			best = i
			bestOverlap = overlap
		}
	}
	if best >= 0 {
		return found(m.entries[best], TierTokenOverlap)
	}

	return Result{}
}

// tokenOverlap counts query tokens that appear inside, or contain, some entry token.
func tokenOverlap(query, entryTokens []string) int {
	count := 0
	for _, q := range query {
		for _, t := range entryTokens {
			if strings.Contains(t, q) || strings.Contains(q, t) {
				count++
				break
			}
		}
	}
	return count
}

func found(e preparedEntry, tier Tier) Result {
	return Result{
		Canonical: e.entry.Name,
		URL:       e.entry.URL,
		Known:     true,
		Tier:      tier,
	}
}
