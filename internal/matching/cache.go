// Package matching resolves free-text exercise names to catalog entries.
package matching

import "sync"

// Surface is where a resolution will be shown. It is part of the cache key so
// the print and screen paths keep separate memo entries.
type Surface string

const (
	SurfacePrint  Surface = "print"
	SurfaceScreen Surface = "screen"
)

// Cache is the key-value store a Session memoizes resolutions in.
type Cache interface {
	Get(key string) (Result, bool)
	Put(key string, result Result)
}

// MemoryCache is a render-scoped Cache. It is not safe for concurrent use;
// each render owns its own.
type MemoryCache struct {
	entries map[string]Result
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]Result)}
}

func (c *MemoryCache) Get(key string) (Result, bool) {
	r, ok := c.entries[key]
	return r, ok
}

func (c *MemoryCache) Put(key string, result Result) {
	c.entries[key] = result
}

// Len returns the number of memoized keys.
func (c *MemoryCache) Len() int {
	return len(c.entries)
}

// SharedMemo is a cross-render memo keyed by normalized name. Entries are only
// ever added and each value is a pure function of its key, so sharing it
// between concurrent renders is safe.
type SharedMemo struct {
	mu      sync.RWMutex
	entries map[string]Result
}

// NewSharedMemo creates an empty SharedMemo.
func NewSharedMemo() *SharedMemo {
	return &SharedMemo{entries: make(map[string]Result)}
}

func (m *SharedMemo) Get(key string) (Result, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.entries[key]
	return r, ok
}

func (m *SharedMemo) Put(key string, result Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entries[key]; !exists {
		m.entries[key] = result
	}
}

// Len returns the number of memoized keys.
func (m *SharedMemo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
