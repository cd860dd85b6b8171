package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/coach-report/internal/bodycomp"
	"github.com/jonathan/coach-report/internal/logger"
	"github.com/jonathan/coach-report/internal/matching"
	"github.com/jonathan/coach-report/internal/observability"
	"github.com/jonathan/coach-report/internal/parsing"
	"github.com/jonathan/coach-report/internal/pipeline"
	"github.com/jonathan/coach-report/internal/schemas"
	"github.com/jonathan/coach-report/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render a PDF report from a plan text and a client profile",
	Long: `Renders one report. --kind selects nutrition, workout or assessment.
An assessment needs only --profile; the other kinds need --plan and add the
body-composition section when the profile carries body-fat data.`,
	RunE: runGenerate,
}

var (
	generatePlanFile    string
	generateProfileFile string
	generateKind        string
	generateOutDir      string
	generateDate        string
	generateConfigFile  string
	generateDatabaseURL string
	generateVerbose     bool
	generateWatch       bool
)

// watchDebounce collapses the burst of events an editor save produces.
const watchDebounce = 500 * time.Millisecond

func init() {
	generateCmd.Flags().StringVarP(&generatePlanFile, "plan", "p", "", "Path to plan text file")
	generateCmd.Flags().StringVar(&generateProfileFile, "profile", "", "Path to client profile JSON file")
	generateCmd.Flags().StringVarP(&generateKind, "kind", "k", "", "Report kind: nutrition, workout or assessment (required)")
	generateCmd.Flags().StringVarP(&generateOutDir, "out", "o", "", "Output directory (default from config, then \".\")")
	generateCmd.Flags().StringVar(&generateDate, "date", "", "Report date as YYYY-MM-DD (default today)")
	generateCmd.Flags().StringVarP(&generateConfigFile, "config", "c", "", "Path to config JSON file")
	generateCmd.Flags().StringVar(&generateDatabaseURL, "db-url", "", "Database URL to store the report (default DATABASE_URL)")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print the parsed plan and the report summary")
	generateCmd.Flags().BoolVarP(&generateWatch, "watch", "w", false, "Re-render whenever the plan or profile file changes")

	if err := generateCmd.MarkFlagRequired("kind"); err != nil {
		panic(fmt.Sprintf("failed to mark kind flag as required: %v", err))
	}

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	kind, err := parseKind(generateKind)
	if err != nil {
		return err
	}
	if generatePlanFile == "" && generateProfileFile == "" {
		return fmt.Errorf("must provide --plan, --profile or both")
	}
	if kind != types.PlanAssessment && generatePlanFile == "" {
		return fmt.Errorf("--plan is required for %s reports", kind)
	}
	date, err := parseDate(generateDate)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(generateConfigFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = generateOutDir
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = generateDatabaseURL
	}
	verbose := generateVerbose || cfg.Verbose

	log, err := newLogger(cfg, verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
	gen, err := newGenerator(cfg, log, matching.NewMatcher(idx), methods, store)
	if err != nil {
		return err
	}

	render := func() error {
		req, err := buildRequest(kind, generatePlanFile, generateProfileFile, date)
		if err != nil {
			return err
		}
		return generateOnce(ctx, gen, req, cfg.OutputDir, verbose)
	}

	if err := render(); err != nil {
		if !generateWatch {
			return err
		}
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	if !generateWatch {
		return nil
	}

	paths := nonEmpty(generatePlanFile, generateProfileFile)
	_, _ = fmt.Fprintf(os.Stderr, "Watching %s for changes (Ctrl+C to stop)\n", strings.Join(paths, ", "))
	return watchFiles(ctx, log, paths, watchDebounce, func(name string) {
		_, _ = fmt.Fprintf(os.Stderr, "Changed: %s\n", name)
		if err := render(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	})
}

// buildRequest reads the input files. It runs again on every watch cycle so
// edits are picked up.
func buildRequest(kind types.PlanKind, planFile, profileFile string, date time.Time) (pipeline.Request, error) {
	req := pipeline.Request{Kind: kind, Date: date}
	if planFile != "" {
		text, err := parsing.ReadTextFile(planFile)
		if err != nil {
			return req, err
		}
		req.PlanText = text
	}
	if profileFile != "" {
		profile, err := schemas.LoadProfile(profileFile)
		if err != nil {
			return req, err
		}
		req.Profile = profile
	}
	return req, nil
}

func generateOnce(ctx context.Context, gen *pipeline.Generator, req pipeline.Request, outDir string, verbose bool) error {
	printer := observability.NewPrinter(os.Stdout)
	if verbose {
		req.OnProgress = func(e pipeline.ProgressEvent) {
			switch content := e.Content.(type) {
			case *types.Plan:
				printer.PrintPlan(content)
			case *types.Violations:
				printer.PrintViolations(content)
			}
		}
		if req.Profile.HasComposition() {
			printer.PrintMetrics(bodycomp.Compute(req.Profile, logger.NewNop()))
		}
	}

	artifact, err := gen.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, pipeline.ErrNothingToGenerate) {
			return fmt.Errorf("nothing to generate: the plan text is empty")
		}
		return fmt.Errorf("failed to generate report: %w", err)
	}

	path, err := writeOutput(outDir, artifact.FileName, artifact.Content)
	if err != nil {
		return err
	}

	if verbose {
		printer.PrintArtifact(artifact, path)
	} else {
		_, _ = fmt.Fprintf(os.Stdout, "Generated %s (%d page(s))\n", path, artifact.Pages)
		for _, w := range artifact.Warnings {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
	}
	return nil
}

func parseKind(s string) (types.PlanKind, error) {
	kind := types.PlanKind(strings.ToLower(strings.TrimSpace(s)))
	if !kind.Valid() {
		return "", fmt.Errorf("invalid kind %q: must be nutrition, workout or assessment", s)
	}
	return kind, nil
}

// parseDate accepts YYYY-MM-DD; empty means the generator's clock.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
