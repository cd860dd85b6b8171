package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/coach-report/internal/matching"
	"github.com/jonathan/coach-report/internal/observability"
)

var matchCmd = &cobra.Command{
	Use:   "match NAME...",
	Short: "Look up exercise names in the video catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMatch,
}

var (
	matchSurface    string
	matchConfigFile string
)

func init() {
	matchCmd.Flags().StringVar(&matchSurface, "surface", string(matching.SurfaceScreen), "Where the link is shown: print or screen")
	matchCmd.Flags().StringVarP(&matchConfigFile, "config", "c", "", "Path to config JSON file")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(_ *cobra.Command, args []string) error {
	surface := matching.Surface(matchSurface)
	if surface != matching.SurfacePrint && surface != matching.SurfaceScreen {
		return fmt.Errorf("invalid surface %q: must be print or screen", matchSurface)
	}
	cfg, err := loadConfig(matchConfigFile)
	if err != nil {
		return err
	}
	idx, _, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	session := matching.NewMatcher(idx).NewSession(nil)
	matches := make([]observability.Match, 0, len(args))
	for _, name := range args {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		matches = append(matches, observability.Match{Name: name, Result: session.Resolve(surface, name)})
	}
	observability.NewPrinter(os.Stdout).PrintMatches(matches)
	return nil
}
