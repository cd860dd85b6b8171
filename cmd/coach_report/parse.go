package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/coach-report/internal/observability"
	"github.com/jonathan/coach-report/internal/parsing"
	"github.com/jonathan/coach-report/internal/schemas"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse plan text into structured JSON",
	Long:  "Parses a plan text and prints the meals, training blocks, shopping list or fallback paragraphs as JSON.",
	RunE:  runParse,
}

var (
	parsePlanFile   string
	parseVariant    string
	parseOutFile    string
	parseConfigFile string
	parseVerbose    bool
)

func init() {
	parseCmd.Flags().StringVarP(&parsePlanFile, "plan", "p", "", "Path to plan text file, or - for stdin (required)")
	parseCmd.Flags().StringVar(&parseVariant, "variant", "auto", "Sections to recognize: auto, nutrition or workout")
	parseCmd.Flags().StringVarP(&parseOutFile, "out", "o", "", "Write JSON to this file instead of stdout")
	parseCmd.Flags().StringVarP(&parseConfigFile, "config", "c", "", "Path to config JSON file")
	parseCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "Print a plan summary to stderr")

	if err := parseCmd.MarkFlagRequired("plan"); err != nil {
		panic(fmt.Sprintf("failed to mark plan flag as required: %v", err))
	}

	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, _ []string) error {
	variant, ok := parsing.ParseVariant(parseVariant)
	if !ok {
		return fmt.Errorf("invalid variant %q: must be auto, nutrition or workout", parseVariant)
	}
	cfg, err := loadConfig(parseConfigFile)
	if err != nil {
		return err
	}

	text, err := parsing.ReadTextFile(parsePlanFile)
	if err != nil {
		return err
	}
	plan := parsing.ParsePlan(text, cfg.ParseOptions(variant))

	output, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	if err := schemas.ValidatePlan(output); err != nil {
		return fmt.Errorf("parsed plan failed schema validation: %w", err)
	}

	if parseVerbose {
		observability.NewPrinter(os.Stderr).PrintPlan(plan)
	}

	if parseOutFile == "" {
		_, _ = fmt.Fprintln(os.Stdout, string(output))
		return nil
	}
	if err := os.WriteFile(parseOutFile, output, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stderr, "Plan written to %s\n", parseOutFile)
	return nil
}
