package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/warp/roster-engine/api"
	"github.com/warp/roster-engine/factory"
	"github.com/warp/roster-engine/roster"
	"go.uber.org/zap"
)

var (
	snapshotFile string
	minRest      float64
	strict       bool
	windowStart  string
	windowDays   int
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit a snapshot file and print the violations as JSON",
	Long: `Runs every compliance rule over a snapshot file (.json, .yaml or .yml).

With --strict the command exits non-zero when any CRITICAL or LEGAL
violation is found.`,
	RunE: runAudit,
}

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Print the capacity forecast of a snapshot file",
	RunE:  runForecast,
}

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Print the Absence & Rest Registry of a snapshot file",
	RunE:  runRegistry,
}

func init() {
	for _, cmd := range []*cobra.Command{auditCmd, forecastCmd, registryCmd} {
		cmd.Flags().StringVarP(&snapshotFile, "file", "f", "", "snapshot file (.json, .yaml, .yml)")
		_ = cmd.MarkFlagRequired("file")
	}
	auditCmd.Flags().Float64Var(&minRest, "min-rest", 0, "minimum rest hours (default from config)")
	auditCmd.Flags().BoolVar(&strict, "strict", false, "fail on CRITICAL or LEGAL violations")

	for _, cmd := range []*cobra.Command{forecastCmd, registryCmd} {
		cmd.Flags().StringVar(&windowStart, "start", "", "window start YYYY-MM-DD (default: first program date)")
		cmd.Flags().IntVar(&windowDays, "days", 0, "window length in days (default: through last program date)")
	}
}

func runAudit(cmd *cobra.Command, args []string) error {
	snap, err := factory.ParseFile(snapshotFile)
	if err != nil {
		return err
	}

	opts := cfg.AuditOptions()
	if cmd.Flags().Changed("min-rest") {
		if minRest <= 0 {
			return fmt.Errorf("--min-rest must be positive")
		}
		opts.MinRestHours = decimal.NewFromFloat(minRest)
	}

	report, err := roster.Audit(snap, opts)
	if err != nil {
		return err
	}
	logger.Debug("audit complete",
		zap.String("file", snapshotFile),
		zap.String("window", report.Window.String()),
		zap.Int("violations", len(report.Violations)),
	)

	if err := printJSON(cmd.OutOrStdout(), api.NewAuditReportDTO(report)); err != nil {
		return err
	}

	if strict {
		if n := report.Counts[roster.SeverityCritical] + report.Counts[roster.SeverityLegal]; n > 0 {
			return fmt.Errorf("%d blocking violation(s)", n)
		}
	}
	return nil
}

func runForecast(cmd *cobra.Command, args []string) error {
	snap, err := factory.ParseFile(snapshotFile)
	if err != nil {
		return err
	}
	window, err := cliWindow(snap)
	if err != nil {
		return err
	}

	forecast, err := roster.Forecast(snap, window)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), api.NewForecastDTO(forecast))
}

func runRegistry(cmd *cobra.Command, args []string) error {
	snap, err := factory.ParseFile(snapshotFile)
	if err != nil {
		return err
	}
	window, err := cliWindow(snap)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), api.NewRegistryDTO(roster.BuildRegistry(snap, window)))
}

// cliWindow resolves --start/--days against the snapshot's program span.
func cliWindow(snap *roster.Snapshot) (roster.DateRange, error) {
	return roster.ResolveWindow(snap, windowStart, windowDays)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
