// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/coach-report/internal/layout"
	"github.com/jonathan/coach-report/internal/parsing"
)

// Environment variables consulted when neither the config file nor a flag sets a value.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvLogMode     = "COACH_REPORT_LOG"
)

// Page holds the physical page in millimeters.
type Page struct {
	WidthMM      float64 `json:"width_mm,omitempty" validate:"omitempty,gt=50,lte=1000"`
	HeightMM     float64 `json:"height_mm,omitempty" validate:"omitempty,gt=50,lte=1000"`
	MarginTop    float64 `json:"margin_top,omitempty" validate:"gte=0,lt=100"`
	MarginBottom float64 `json:"margin_bottom,omitempty" validate:"gte=0,lt=100"`
	MarginLeft   float64 `json:"margin_left,omitempty" validate:"gte=0,lt=100"`
	MarginRight  float64 `json:"margin_right,omitempty" validate:"gte=0,lt=100"`
	HeaderHeight float64 `json:"header_height,omitempty" validate:"gte=0,lt=100"`
}

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	Page Page `json:"page"`

	// Brand is the header band color as #RRGGBB.
	Brand string `json:"brand,omitempty" validate:"omitempty,hexcolor"`

	// Catalog overrides; empty means the embedded catalog.
	CatalogPath string `json:"catalog_path,omitempty"`
	MethodsPath string `json:"methods_path,omitempty"`

	// Workout defaults for exercises whose sets/reps cannot be recovered.
	DefaultSets string `json:"default_sets,omitempty"`
	DefaultReps string `json:"default_reps,omitempty"`

	// Behavior
	LogMode     string `json:"log_mode,omitempty" validate:"omitempty,oneof=dev prod production"`
	OutputDir   string `json:"output_dir,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	g := layout.A4()
	return Config{
		Page: Page{
			WidthMM:      g.WidthMM,
			HeightMM:     g.HeightMM,
			MarginTop:    g.Top,
			MarginBottom: g.Bottom,
			MarginLeft:   g.Left,
			MarginRight:  g.Right,
			HeaderHeight: g.HeaderHeight,
		},
		Brand:       "#1F4E79",
		DefaultSets: parsing.DefaultSets,
		DefaultReps: parsing.DefaultReps,
		LogMode:     "dev",
		OutputDir:   ".",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Page.WidthMM > 0 && c.Page.HeightMM > 0 {
		if err := c.Geometry().Validate(); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}

	// Validate file paths exist (if specified)
	for name, path := range map[string]string{"catalog": c.CatalogPath, "methods": c.MethodsPath} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("config error: %s file not found: %s", name, path)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Brand == "" {
		result.Brand = defaults.Brand
	}
	if result.CatalogPath == "" {
		result.CatalogPath = defaults.CatalogPath
	}
	if result.MethodsPath == "" {
		result.MethodsPath = defaults.MethodsPath
	}
	if result.DefaultSets == "" {
		result.DefaultSets = defaults.DefaultSets
	}
	if result.DefaultReps == "" {
		result.DefaultReps = defaults.DefaultReps
	}
	if result.LogMode == "" {
		result.LogMode = defaults.LogMode
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Page: a zero size takes the whole default page, zero margins are kept.
	if result.Page.WidthMM == 0 || result.Page.HeightMM == 0 {
		result.Page = defaults.Page
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyEnv fills the database URL and log mode from the environment when unset.
func (c *Config) ApplyEnv() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv(EnvDatabaseURL)
	}
	if c.LogMode == "" {
		c.LogMode = os.Getenv(EnvLogMode)
	}
}

// Geometry converts the page settings to a layout geometry.
func (c *Config) Geometry() layout.PageGeometry {
	return layout.PageGeometry{
		WidthMM:      c.Page.WidthMM,
		HeightMM:     c.Page.HeightMM,
		Top:          c.Page.MarginTop,
		Bottom:       c.Page.MarginBottom,
		Left:         c.Page.MarginLeft,
		Right:        c.Page.MarginRight,
		HeaderHeight: c.Page.HeaderHeight,
	}
}

// ParseOptions returns parser options carrying the configured defaults.
func (c *Config) ParseOptions(variant parsing.Variant) parsing.Options {
	opts := parsing.DefaultOptions()
	opts.Variant = variant
	if c.DefaultSets != "" {
		opts.DefaultSets = c.DefaultSets
	}
	if c.DefaultReps != "" {
		opts.DefaultReps = c.DefaultReps
	}
	return opts
}
