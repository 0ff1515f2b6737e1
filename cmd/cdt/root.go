package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/j-veylop/capacity-dashboard-tui/internal/config"
)

// Global flag values.
var (
	dataPath string
	noColor  bool
)

// rootCmd runs the dashboard.
var rootCmd = &cobra.Command{
	Use:   "cdt",
	Short: "Site capacity metrics dashboard",
	Long: `cdt loads hourly site capacity metrics from a CSV file and explores them
in a terminal dashboard: throughput and response delay by hour, provider and
site, with filtering, heatmaps, comparisons and CSV export.

Configuration is read from .env files and the environment (DATA_PATH,
DATABASE_PATH, EXPORT_DIR, LOG_PATH, LOG_LEVEL, SCHEMA_POLICY,
RELOAD_DEBOUNCE, DESKTOP_NOTIFICATIONS).`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if noColor {
			color.NoColor = true
		}
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return runTUI()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "", "CSV data file (overrides DATA_PATH)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dataPath != "" {
		cfg.DataPath = dataPath
	}
	return cfg, nil
}
