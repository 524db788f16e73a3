/*
main.go - Application entry point

PURPOSE:
  The roster command line: runs the HTTP API or evaluates a snapshot file
  directly.

COMMANDS:
  serve      Start the HTTP API and the re-audit sweeper
  audit      Audit a snapshot file, print violations as JSON
  forecast   Capacity forecast for a snapshot file
  registry   Absence & Rest Registry for a snapshot file

GLOBAL FLAGS:
  --config   YAML config file (default: roster.yaml, optional)
  --verbose  Debug logging

ENVIRONMENT:
  ROSTER_PORT, ROSTER_DB, ROSTER_LOG_LEVEL, ROSTER_MIN_REST_HOURS,
  ROSTER_SWEEP_INTERVAL override the config file. A .env file is read
  when present.

EXAMPLES:
  roster serve --config ./roster.yaml
  roster audit -f week10.yaml --min-rest 11
  roster forecast -f january.json --start 2024-01-01 --days 31

SEE ALSO:
  - config/config.go: Configuration loading
  - api/server.go: Router configuration
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/roster-engine/config"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "roster",
	Short: "Roster compliance and capacity engine",
	Long: `roster audits staff rosters against labor rules (rest, qualification,
headcount, contract, 5/2 days off), forecasts leave capacity and reports
per-day absence status.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if verbose {
			cfg.Logging.Level = "debug"
			cfg.Logging.Format = "console"
		}
		logger, err = cfg.NewLogger()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "roster.yaml", "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(serveCmd, auditCmd, forecastCmd, registryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
