package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/coach-report/internal/config"
	"github.com/jonathan/coach-report/internal/db"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List, fetch and delete stored reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored reports, newest first",
	Args:  cobra.NoArgs,
	RunE:  runReportsList,
}

var reportsGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Write a stored report's PDF to disk",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsGet,
}

var reportsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a stored report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsDelete,
}

var (
	reportsDatabaseURL string
	reportsClient      string
	reportsKind        string
	reportsLimit       int
	reportsOutDir      string
)

func init() {
	reportsCmd.PersistentFlags().StringVar(&reportsDatabaseURL, "db-url", "", "Database URL (default DATABASE_URL)")

	reportsListCmd.Flags().StringVar(&reportsClient, "client", "", "Only reports for this client")
	reportsListCmd.Flags().StringVarP(&reportsKind, "kind", "k", "", "Only reports of this kind")
	reportsListCmd.Flags().IntVar(&reportsLimit, "limit", 20, "Maximum number of reports")

	reportsGetCmd.Flags().StringVarP(&reportsOutDir, "out", "o", ".", "Output directory")

	reportsCmd.AddCommand(reportsListCmd, reportsGetCmd, reportsDeleteCmd)
	rootCmd.AddCommand(reportsCmd)
}

// connectReports opens the report store; these commands need one.
func connectReports(ctx context.Context) (*db.DB, error) {
	url := reportsDatabaseURL
	if url == "" {
		url = os.Getenv(config.EnvDatabaseURL)
	}
	if url == "" {
		return nil, fmt.Errorf("DATABASE_URL not set and --db-url not provided")
	}
	return openStore(ctx, url)
}

func runReportsList(_ *cobra.Command, _ []string) error {
	if reportsKind != "" {
		if _, err := parseKind(reportsKind); err != nil {
			return err
		}
	}
	ctx := context.Background()
	database, err := connectReports(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	reports, err := database.ListReports(ctx, db.ReportFilters{Client: reportsClient, Kind: reportsKind, Limit: reportsLimit})
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		_, _ = fmt.Fprintln(os.Stdout, "No reports found")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tKIND\tCLIENT\tPAGES\tCREATED\tFILE")
	for _, r := range reports {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			r.ID, r.Kind, r.Client, r.Pages, r.CreatedAt.Format("2006-01-02 15:04"), r.FileName)
	}
	return tw.Flush()
}

func runReportsGet(_ *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid report id: %w", err)
	}
	ctx := context.Background()
	database, err := connectReports(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	report, err := database.GetReport(ctx, id)
	if err != nil {
		return err
	}
	if report == nil {
		return fmt.Errorf("report %s not found", id)
	}

	path, err := writeOutput(reportsOutDir, filepath.Base(report.FileName), report.Content)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "Report written to %s\n", path)
	return nil
}

func runReportsDelete(_ *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid report id: %w", err)
	}
	ctx := context.Background()
	database, err := connectReports(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.DeleteReport(ctx, id); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "Deleted report %s\n", id)
	return nil
}
