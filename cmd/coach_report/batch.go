package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/coach-report/internal/matching"
	"github.com/jonathan/coach-report/internal/pipeline"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Render several reports concurrently from a manifest",
	Long: `Renders every report listed in a YAML manifest:

  concurrency: 4
  out: reports
  reports:
    - kind: workout
      plan: plans/ana-workout.txt
      profile: profiles/ana.json
      date: 2026-03-14

Relative paths are resolved against the manifest's directory. A failed report
does not stop the others.`,
	RunE: runBatch,
}

var (
	batchManifestFile string
	batchOutDir       string
	batchConcurrency  int
	batchConfigFile   string
	batchDatabaseURL  string
)

func init() {
	batchCmd.Flags().StringVarP(&batchManifestFile, "manifest", "m", "", "Path to batch manifest YAML file (required)")
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", "", "Output directory (overrides the manifest)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "Reports rendered at once (overrides the manifest; 0 means 4)")
	batchCmd.Flags().StringVarP(&batchConfigFile, "config", "c", "", "Path to config JSON file")
	batchCmd.Flags().StringVar(&batchDatabaseURL, "db-url", "", "Database URL to store the reports (default DATABASE_URL)")

	if err := batchCmd.MarkFlagRequired("manifest"); err != nil {
		panic(fmt.Sprintf("failed to mark manifest flag as required: %v", err))
	}

	rootCmd.AddCommand(batchCmd)
}

const defaultBatchConcurrency = 4

// Manifest lists the reports of one batch run.
type Manifest struct {
	Concurrency int             `yaml:"concurrency"`
	Out         string          `yaml:"out"`
	Reports     []ManifestEntry `yaml:"reports"`
}

// ManifestEntry is one report: the same inputs as the generate command.
type ManifestEntry struct {
	Kind    string `yaml:"kind"`
	Plan    string `yaml:"plan"`
	Profile string `yaml:"profile"`
	Date    string `yaml:"date"`
}

// loadManifest reads a manifest and resolves its paths against its directory.
func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest YAML: %w", err)
	}
	if len(m.Reports) == 0 {
		return nil, fmt.Errorf("manifest %s lists no reports", path)
	}

	base := filepath.Dir(path)
	resolve := func(p string) string {
		if p == "" || p == "-" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	for i := range m.Reports {
		e := &m.Reports[i]
		if _, err := parseKind(e.Kind); err != nil {
			return nil, fmt.Errorf("report %d: %w", i+1, err)
		}
		if e.Plan == "-" {
			return nil, fmt.Errorf("report %d: stdin is not supported in a manifest", i+1)
		}
		e.Plan = resolve(e.Plan)
		e.Profile = resolve(e.Profile)
	}
	if m.Out != "" {
		m.Out = resolve(m.Out)
	}
	return &m, nil
}

// requests reads every entry's input files.
func (m *Manifest) requests() ([]pipeline.Request, error) {
	reqs := make([]pipeline.Request, len(m.Reports))
	for i, e := range m.Reports {
		kind, _ := parseKind(e.Kind)
		date, err := parseDate(e.Date)
		if err != nil {
			return nil, fmt.Errorf("report %d: %w", i+1, err)
		}
		req, err := buildRequest(kind, e.Plan, e.Profile, date)
		if err != nil {
			return nil, fmt.Errorf("report %d: %w", i+1, err)
		}
		reqs[i] = req
	}
	return reqs, nil
}

func runBatch(cmd *cobra.Command, _ []string) error {
	manifest, err := loadManifest(batchManifestFile)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(batchConfigFile)
	if err != nil {
		return err
	}

	outDir := cfg.OutputDir
	if manifest.Out != "" {
		outDir = manifest.Out
	}
	if cmd.Flags().Changed("out") {
		outDir = batchOutDir
	}
	concurrency := defaultBatchConcurrency
	if manifest.Concurrency > 0 {
		concurrency = manifest.Concurrency
	}
	if batchConcurrency > 0 {
		concurrency = batchConcurrency
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = batchDatabaseURL
	}

	log, err := newLogger(cfg, cfg.Verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reqs, err := manifest.requests()
	if err != nil {
		return err
	}

	idx, methods, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}
	// Reports in one batch share resolutions through the in-process memo.
	matcher := matching.NewMatcher(idx, matching.WithSharedMemo(matching.NewSharedMemo()))
	gen, err := newGenerator(cfg, log, matcher, methods, store)
	if err != nil {
		return err
	}

	results, err := gen.GenerateBatch(ctx, reqs, concurrency)
	if err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}

	failed := 0
	for i, r := range results {
		if r.Err != nil {
			failed++
			_, _ = fmt.Fprintf(os.Stderr, "✗ report %d (%s): %v\n", i+1, r.Request.Kind, r.Err)
			continue
		}
		path, err := writeOutput(outDir, r.Artifact.FileName, r.Artifact.Content)
		if err != nil {
			failed++
			_, _ = fmt.Fprintf(os.Stderr, "✗ report %d (%s): %v\n", i+1, r.Request.Kind, err)
			continue
		}
		_, _ = fmt.Fprintf(os.Stdout, "✓ %s (%d page(s))\n", path, r.Artifact.Pages)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Generated %d of %d report(s)\n", len(results)-failed, len(results))
	if failed > 0 {
		return fmt.Errorf("%d report(s) failed", failed)
	}
	return nil
}
