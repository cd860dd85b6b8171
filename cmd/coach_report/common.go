package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/coach-report/internal/catalog"
	"github.com/jonathan/coach-report/internal/config"
	"github.com/jonathan/coach-report/internal/db"
	"github.com/jonathan/coach-report/internal/logger"
	"github.com/jonathan/coach-report/internal/matching"
	"github.com/jonathan/coach-report/internal/parsing"
	"github.com/jonathan/coach-report/internal/pipeline"
	"github.com/jonathan/coach-report/internal/rendering"
)

// loadConfig reads the config file when one is given, fills unset values from
// the environment and the defaults, and validates the result.
func loadConfig(path string) (config.Config, error) {
	cfg := &config.Config{}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	merged := cfg.MergeWithDefaults(config.Defaults())
	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}

// newLogger builds the structured logger; verbose forces debug output.
func newLogger(cfg config.Config, verbose bool) (*logger.Logger, error) {
	mode := cfg.LogMode
	if verbose {
		mode = "dev"
	}
	log, err := logger.New(mode)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

// loadCatalog returns the configured exercise index and method catalog,
// falling back to the embedded ones.
func loadCatalog(cfg config.Config) (*catalog.Index, *catalog.Methods, error) {
	var (
		idx     *catalog.Index
		methods *catalog.Methods
		err     error
	)
	if cfg.CatalogPath != "" {
		idx, err = catalog.LoadIndex(cfg.CatalogPath)
	} else {
		idx, err = catalog.DefaultIndex()
	}
	if err != nil {
		return nil, nil, err
	}
	if cfg.MethodsPath != "" {
		methods, err = catalog.LoadMethods(cfg.MethodsPath)
	} else {
		methods, err = catalog.DefaultMethods()
	}
	if err != nil {
		return nil, nil, err
	}
	return idx, methods, nil
}

// generatorOptions maps the config onto pipeline options.
func generatorOptions(cfg config.Config, log *logger.Logger) (pipeline.Options, error) {
	theme, err := rendering.ThemeFromBrand(cfg.Brand)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("config error: %w", err)
	}
	return pipeline.Options{
		Geometry: cfg.Geometry(),
		Theme:    theme,
		Parse:    cfg.ParseOptions(parsing.VariantAuto),
		Logger:   log,
	}, nil
}

// newGenerator wires the catalog, config and optional store into a Generator.
func newGenerator(cfg config.Config, log *logger.Logger, matcher *matching.Matcher, methods *catalog.Methods, store *db.DB) (*pipeline.Generator, error) {
	opts, err := generatorOptions(cfg, log)
	if err != nil {
		return nil, err
	}
	if store != nil {
		opts.Store = store
	}
	return pipeline.NewGenerator(matcher, methods, opts), nil
}

// openStore connects to PostgreSQL when a URL is configured. It returns nil
// without a URL.
func openStore(ctx context.Context, databaseURL string) (*db.DB, error) {
	if databaseURL == "" {
		return nil, nil
	}
	database, err := db.Open(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database, nil
}

// writeOutput writes content to dir/name, creating dir when needed.
func writeOutput(dir, name string, content []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	return path, nil
}
