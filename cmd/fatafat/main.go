package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/fatafat-forecast/internal/config"
	"github.com/danielpatrickdp/fatafat-forecast/internal/logging"
)

var (
	// Global flags
	cfgPath string
	verbose bool

	// Populated by PersistentPreRunE
	cfg    config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fatafat",
	Short: "Digit forecasts for the Kolkata FF draw",
	Long: `fatafat scores every digit 0-9 for the next draw from the recorded
history: frequency, recency, order-1/2/3 transitions, hot and cold sets
and the time of day, blended into a distribution that sums to 100.

The history lives in a SQLite database. An empty database is seeded from
storage.history_file when set, otherwise with generated sample draws.

Forecasts are for entertainment. Past results do not predict future draws.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		logger, err = logging.NewLogger(logging.LoggerConfig{
			Level:   cfg.Logging.Level,
			JSON:    cfg.Logging.JSON,
			Verbose: verbose,
		})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "YAML config file (defaults apply when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(backtestCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
