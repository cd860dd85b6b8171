// Package main provides the coach_report CLI: it turns coach-authored plan
// text into paginated PDF reports and serves the same pipeline over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coach_report",
	Short: "Coaching report generator",
	Long:  "coach_report renders nutrition plans, training plans and body assessments as paginated PDF reports with clickable exercise videos.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
