package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/coach-report/internal/export"
	"github.com/jonathan/coach-report/internal/matching"
	"github.com/jonathan/coach-report/internal/parsing"
	"github.com/jonathan/coach-report/internal/pipeline"
	"github.com/jonathan/coach-report/internal/types"
	"github.com/jonathan/coach-report/internal/views"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a parsed plan as an XLSX workbook",
	Long:  "Writes an overview sheet, one sheet per training block, and Meals and Shopping sheets when the plan has them.",
	RunE:  runExport,
}

var (
	exportPlanFile   string
	exportOutFile    string
	exportClient     string
	exportKind       string
	exportConfigFile string
)

func init() {
	exportCmd.Flags().StringVarP(&exportPlanFile, "plan", "p", "", "Path to plan text file, or - for stdin (required)")
	exportCmd.Flags().StringVarP(&exportOutFile, "out", "o", "", "Path to the .xlsx file to write (required)")
	exportCmd.Flags().StringVar(&exportClient, "client", "", "Client name shown on the overview sheet")
	exportCmd.Flags().StringVarP(&exportKind, "kind", "k", "", "Plan kind: nutrition or workout (default: both sections)")
	exportCmd.Flags().StringVarP(&exportConfigFile, "config", "c", "", "Path to config JSON file")

	if err := exportCmd.MarkFlagRequired("plan"); err != nil {
		panic(fmt.Sprintf("failed to mark plan flag as required: %v", err))
	}
	if err := exportCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	if !strings.EqualFold(filepath.Ext(exportOutFile), ".xlsx") {
		return fmt.Errorf("output file must end in .xlsx: %s", exportOutFile)
	}
	variant, err := variantForKind(exportKind)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(exportConfigFile)
	if err != nil {
		return err
	}
	idx, methods, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	text, err := parsing.ReadTextFile(exportPlanFile)
	if err != nil {
		return err
	}
	plan := parsing.ParsePlan(text, cfg.ParseOptions(variant))
	if plan.SectionCount() == 0 && len(plan.ShoppingList) == 0 {
		return fmt.Errorf("nothing to export: no meals or training blocks were recognized")
	}

	if dir := filepath.Dir(exportOutFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	videos := views.SessionLookup(matching.NewMatcher(idx).NewSession(nil), matching.SurfaceScreen)
	opts := export.Options{Title: pipeline.Title(types.PlanKind(exportKind)), Client: exportClient}
	if err := export.WriteFile(exportOutFile, plan, videos, methods, opts); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "Workbook written to %s\n", exportOutFile)
	return nil
}
