package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sovtrack-engine/internal/export"
	"sovtrack-engine/internal/history"
	"sovtrack-engine/internal/store"
)

var (
	exportFrom   string
	exportTo     string
	exportFormat string
	exportOut    string
	exportPolicy string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the pivoted time series to CSV or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, dataDir, _, err := bootstrap()
		if err != nil {
			return err
		}

		for _, d := range []string{exportFrom, exportTo} {
			if d == "" {
				continue
			}
			if _, err := time.Parse("2006-01-02", d); err != nil {
				return fmt.Errorf("dates must look like 2006-01-02, got %q", d)
			}
		}

		policy := exportPolicy
		if policy == "" {
			policy = cfg.Scoring.Policy
		}
		if policy == "all" {
			policy = ""
		}

		db, err := store.Open(dbPathFor(dataDir))
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		if err := store.Migrate(db.Pool); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		records, err := store.QueryRecords(cmd.Context(), db.Pool, exportFrom, exportTo, policy)
		if err != nil {
			return fmt.Errorf("query records: %w", err)
		}
		ts := history.BuildTimeSeries(records, exportFrom, exportTo)

		out := exportOut
		switch strings.ToLower(exportFormat) {
		case "csv":
			if out == "" {
				out = "share_of_voice.csv"
			}
			err = export.WriteCSV(ts, out)
		case "xlsx":
			if out == "" {
				out = "share_of_voice.xlsx"
			}
			err = export.WriteXLSX(ts, out)
		default:
			return fmt.Errorf("unknown format %q (want csv or xlsx)", exportFormat)
		}
		if err != nil {
			return err
		}

		cmd.Printf("wrote %s: %d domains over %d dates\n", out, len(ts.Series), len(ts.Dates))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "start date (inclusive, 2006-01-02)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "end date (inclusive, 2006-01-02)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv | xlsx")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default share_of_voice.<format>)")
	exportCmd.Flags().StringVar(&exportPolicy, "policy", "", "weight policy to export (default the configured one; \"all\" mixes)")
	rootCmd.AddCommand(exportCmd)
}
