// Package catalog loads the read-only reference data used by the report pipeline:
// the exercise demonstration index and the training-method table.
package catalog

import (
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/jonathan/coach-report/internal/normalize"
	"gopkg.in/yaml.v3"
)

// Method is a named technique modifier attached to one exercise.
type Method struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Aliases     []string `yaml:"aliases"`
	Description string   `yaml:"description"`
}

// Methods is the training-method lookup table.
type Methods struct {
	methods []Method
	// aliases holds normalized keywords per method, same order as methods
	aliases [][]string
}

type methodsFile struct {
	Methods []Method `yaml:"methods"`
}

var (
	// annotationPattern captures the contents of parenthetical and bracketed asides
	annotationPattern = regexp.MustCompile(`\(([^)]*)\)|\[([^\]]*)\]`)

	defaultMethodsOnce sync.Once
	defaultMethods     *Methods
	defaultMethodsErr  error
)

// NewMethods builds a lookup table from method definitions.
func NewMethods(methods []Method) *Methods {
	m := &Methods{
		methods: methods,
		aliases: make([][]string, len(methods)),
	}
	for i, method := range methods {
		keys := append([]string{method.Key, method.Name}, method.Aliases...)
		for _, k := range keys {
			if n := normalize.Normalize(k); n != "" {
				m.aliases[i] = append(m.aliases[i], n)
			}
		}
	}
	return m
}

// DefaultMethods returns the embedded method table, decoded once per process.
func DefaultMethods() (*Methods, error) {
	defaultMethodsOnce.Do(func() {
		data, err := dataFS.ReadFile("data/methods.yaml")
		if err != nil {
			defaultMethodsErr = &LoadError{Source: "embedded", Message: "failed to read methods", Cause: err}
			return
		}
		defaultMethods, defaultMethodsErr = decodeMethods("embedded", data)
	})
	return defaultMethods, defaultMethodsErr
}

// LoadMethods reads a method table override from a YAML file.
func LoadMethods(path string) (*Methods, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Message: "failed to read methods file", Cause: err}
	}
	return decodeMethods(path, data)
}

func decodeMethods(source string, data []byte) (*Methods, error) {
	var file methodsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &LoadError{Source: source, Message: "failed to decode methods YAML", Cause: err}
	}
	if len(file.Methods) == 0 {
		return nil, &LoadError{Source: source, Message: "no methods defined"}
	}
	return NewMethods(file.Methods), nil
}

// Resolve finds the method named in a parenthetical or bracketed annotation of
// an exercise name, e.g. "Supino reto (drop-set)". Names without an annotation
// never resolve.
func (m *Methods) Resolve(exerciseName string) (Method, bool) {
	if m == nil {
		return Method{}, false
	}
	for _, groups := range annotationPattern.FindAllStringSubmatch(exerciseName, -1) {
		annotation := normalize.Normalize(groups[1] + " " + groups[2])
		if annotation == "" {
			continue
		}
		padded := " " + annotation + " "
		for i, aliases := range m.aliases {
			for _, alias := range aliases {
				if strings.Contains(padded, " "+alias+" ") {
					return m.methods[i], true
				}
			}
		}
	}
	return Method{}, false
}

// All returns every method in table order.
func (m *Methods) All() []Method {
	if m == nil {
		return nil
	}
	return m.methods
}
