package main

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/fatafat-forecast/internal/history"
	"github.com/danielpatrickdp/fatafat-forecast/internal/replay"
	"github.com/danielpatrickdp/fatafat-forecast/internal/report"
)

var (
	reportPlain bool

	backtestWarmup  int
	backtestTop     int
	backtestFixture string
	backtestVerbose bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the historical results analysis",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay the history and measure hit rates",
	Long: `Predicts every recorded draw from the draws before it and counts how
often the top digit, and the top-N digits, matched the result.

With --fixture the draws and settings come from a fixture file and the
run fails when the hit counts drift from the expected ones.`,
	Args: cobra.NoArgs,
	RunE: runBacktest,
}

func init() {
	reportCmd.Flags().BoolVar(&reportPlain, "plain", false, "Disable colors")
	reportCmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON")

	backtestCmd.Flags().IntVar(&backtestWarmup, "warmup", replay.DefaultConfig().Warmup, "Draws consumed before the first prediction")
	backtestCmd.Flags().IntVar(&backtestTop, "top", replay.DefaultConfig().TopN, "Size of the top-N hit window")
	backtestCmd.Flags().StringVar(&backtestFixture, "fixture", "", "Backtest fixture JSON")
	backtestCmd.Flags().BoolVar(&backtestVerbose, "each", false, "Print every prediction")
	backtestCmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON")
}

// #region report

func runReport(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	obs, err := loadObservations(store, cfg, time.Now().In(loc), logger)
	if err != nil {
		return err
	}

	r := report.Build(obs, cfg.FrequencyConfig(), time.Now().In(loc))
	if jsonOut {
		return writeJSON(cmd.OutOrStdout(), r)
	}
	return report.Render(cmd.OutOrStdout(), r, !reportPlain)
}

// #endregion report

// #region backtest

func runBacktest(cmd *cobra.Command, args []string) error {
	var (
		obs      []history.Observation
		config   replay.Config
		expected *replay.FixtureExpected
	)

	if backtestFixture != "" {
		f, err := replay.LoadFixture(backtestFixture)
		if err != nil {
			return err
		}
		obs = f.Observations
		config = f.Config.ToConfig()
		expected = &f.Expected
		logger.Info("backtest fixture loaded", zap.String("description", f.Description))
	} else {
		store, err := history.NewStore(cfg.Storage.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		if obs, err = store.Load(); err != nil {
			return err
		}
		config = replay.DefaultConfig()
		config.Frequency = cfg.FrequencyConfig()
		config.Warmup = backtestWarmup
		config.TopN = backtestTop
	}

	results := replay.Backtest(obs, config)
	summary := replay.Summarize(results)

	w := cmd.OutOrStdout()
	if jsonOut {
		if err := writeJSON(w, summary); err != nil {
			return err
		}
	} else {
		if backtestVerbose {
			for _, r := range results {
				mark := " "
				if r.Hit {
					mark = "*"
				} else if r.TopHit {
					mark = "+"
				}
				fmt.Fprintf(w, "%s %s  predicted %d  top %v  [%s]\n", mark, r.Draw, r.Predicted, r.Top, r.Method)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Predictions: %d (warmup %d)\n", summary.Total, config.Warmup)
		fmt.Fprintf(w, "Top-1 hits:  %d (%.1f%%, chance 10.0%%)\n", summary.Hits, summary.HitRate*100)
		fmt.Fprintf(w, "Top-%d hits:  %d (%.1f%%, chance %.1f%%)\n", config.TopN, summary.TopHits, summary.TopRate*100, float64(config.TopN)*10)
		for _, method := range slices.Sorted(maps.Keys(summary.ByMethod)) {
			fmt.Fprintf(w, "  %-20s %d\n", method, summary.ByMethod[method])
		}
	}

	if expected != nil {
		return expected.Check(summary)
	}
	return nil
}

// #endregion backtest
