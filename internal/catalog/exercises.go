// Package catalog loads the read-only reference data used by the report pipeline:
// the exercise demonstration index and the training-method table.
package catalog

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Entry is one catalog row. URL is empty for exercises that are known but have no video yet.
type Entry struct {
	Name string
	URL  string
}

// Index is an immutable exercise catalog. Entries are kept sorted by Name so
// every scan visits them in the same order.
type Index struct {
	entries []Entry
}

type exercisesFile struct {
	Exercises map[string]string `yaml:"exercises"`
}

var (
	defaultIndexOnce sync.Once
	defaultIndex     *Index
	defaultIndexErr  error
)

// NewIndex builds an Index from a name -> url table.
func NewIndex(table map[string]string) *Index {
	entries := make([]Entry, 0, len(table))
	for name, url := range table {
		entries = append(entries, Entry{Name: name, URL: url})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return &Index{entries: entries}
}

// DefaultIndex returns the embedded catalog, decoded once per process.
func DefaultIndex() (*Index, error) {
	defaultIndexOnce.Do(func() {
		data, err := dataFS.ReadFile("data/exercises.yaml")
		if err != nil {
			defaultIndexErr = &LoadError{Source: "embedded", Message: "failed to read exercises", Cause: err}
			return
		}
		defaultIndex, defaultIndexErr = decodeIndex("embedded", data)
	})
	return defaultIndex, defaultIndexErr
}

// LoadIndex reads a catalog override from a YAML file with the same layout as the embedded one.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Message: "failed to read exercises file", Cause: err}
	}
	return decodeIndex(path, data)
}

func decodeIndex(source string, data []byte) (*Index, error) {
	var file exercisesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &LoadError{Source: source, Message: "failed to decode exercises YAML", Cause: err}
	}
	if len(file.Exercises) == 0 {
		return nil, &LoadError{Source: source, Message: "no exercises defined"}
	}
	return NewIndex(file.Exercises), nil
}

// Entries returns the catalog rows in sorted order. The slice must not be modified.
func (idx *Index) Entries() []Entry {
	if idx == nil {
		return nil
	}
	return idx.entries
}

// Len returns the number of entries.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}

// Fingerprint identifies the catalog contents. Two indexes with the same rows
// have the same fingerprint.
func (idx *Index) Fingerprint() string {
	h := sha256.New()
	for _, e := range idx.Entries() {
		h.Write([]byte(e.Name))
		h.Write([]byte{0})
		h.Write([]byte(e.URL))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
