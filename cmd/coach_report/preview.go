package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/coach-report/internal/matching"
	"github.com/jonathan/coach-report/internal/parsing"
	"github.com/jonathan/coach-report/internal/pipeline"
	"github.com/jonathan/coach-report/internal/preview"
	"github.com/jonathan/coach-report/internal/types"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show a parsed plan as an HTML page or in the terminal",
	RunE:  runPreview,
}

var (
	previewPlanFile   string
	previewFormat     string
	previewOutFile    string
	previewClient     string
	previewKind       string
	previewWidth      int
	previewConfigFile string
)

func init() {
	previewCmd.Flags().StringVarP(&previewPlanFile, "plan", "p", "", "Path to plan text file, or - for stdin (required)")
	previewCmd.Flags().StringVarP(&previewFormat, "format", "f", preview.FormatTerm, "Output format: html or term")
	previewCmd.Flags().StringVarP(&previewOutFile, "out", "o", "", "Write to this file instead of stdout")
	previewCmd.Flags().StringVar(&previewClient, "client", "", "Client name shown in the header")
	previewCmd.Flags().StringVarP(&previewKind, "kind", "k", "", "Plan kind: nutrition or workout (default: both sections)")
	previewCmd.Flags().IntVar(&previewWidth, "width", 0, "Terminal width in columns (default 100)")
	previewCmd.Flags().StringVarP(&previewConfigFile, "config", "c", "", "Path to config JSON file")

	if err := previewCmd.MarkFlagRequired("plan"); err != nil {
		panic(fmt.Sprintf("failed to mark plan flag as required: %v", err))
	}

	rootCmd.AddCommand(previewCmd)
}

func runPreview(_ *cobra.Command, _ []string) error {
	if previewFormat != preview.FormatHTML && previewFormat != preview.FormatTerm {
		return fmt.Errorf("invalid format %q: must be html or term", previewFormat)
	}
	variant, err := variantForKind(previewKind)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(previewConfigFile)
	if err != nil {
		return err
	}
	idx, methods, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	text, err := parsing.ReadTextFile(previewPlanFile)
	if err != nil {
		return err
	}
	plan := parsing.ParsePlan(text, cfg.ParseOptions(variant))

	page := preview.Build(plan, matching.NewMatcher(idx).NewSession(nil), methods, preview.Options{
		Title:  pipeline.Title(types.PlanKind(previewKind)),
		Client: previewClient,
		Brand:  cfg.Brand,
	})
	if page.Empty() {
		_, _ = fmt.Fprintln(os.Stderr, "Warning: the plan has no content to show")
	}

	var out bytes.Buffer
	if previewFormat == preview.FormatHTML {
		if err := preview.RenderHTML(&out, page); err != nil {
			return err
		}
	} else {
		out.WriteString(preview.RenderTerminal(page, previewWidth))
		out.WriteString("\n")
	}

	if previewOutFile == "" {
		_, _ = os.Stdout.Write(out.Bytes())
		return nil
	}
	if err := os.WriteFile(previewOutFile, out.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Preview written to %s\n", previewOutFile)
	return nil
}

// variantForKind maps an optional report kind to the parser variant.
func variantForKind(kind string) (parsing.Variant, error) {
	switch types.PlanKind(kind) {
	case "":
		return parsing.VariantAuto, nil
	case types.PlanNutrition:
		return parsing.VariantNutrition, nil
	case types.PlanWorkout:
		return parsing.VariantWorkout, nil
	}
	return parsing.VariantAuto, fmt.Errorf("invalid kind %q: must be nutrition or workout", kind)
}
