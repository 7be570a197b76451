package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/fatafat-forecast/internal/predictor"
	"github.com/danielpatrickdp/fatafat-forecast/internal/rpc"
)

var (
	remoteAddr string
	jsonOut    bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the next draw",
	Long: `Scores all ten digits for the next round and prints the top pick,
its confidence, the explanatory method and the full ranking.

With --remote the prediction is fetched from a running "fatafat serve"
over gRPC instead of being computed from the local database.`,
	Args: cobra.NoArgs,
	RunE: runPredict,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print history statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	for _, c := range []*cobra.Command{predictCmd, statsCmd} {
		c.Flags().StringVar(&remoteAddr, "remote", "", "gRPC address of a running server")
		c.Flags().BoolVar(&jsonOut, "json", false, "Print JSON")
	}
}

// #region predict

func runPredict(cmd *cobra.Command, args []string) error {
	var pred predictor.Prediction
	if remoteAddr != "" {
		client, err := rpc.NewClient(remoteAddr)
		if err != nil {
			return err
		}
		defer client.Close()
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		if pred, err = client.Current(ctx); err != nil {
			return fmt.Errorf("remote predict: %w", err)
		}
	} else {
		p, store, err := openPredictor(cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		pred = p.Current(time.Now(), "cli")
	}

	if jsonOut {
		return writeJSON(cmd.OutOrStdout(), pred)
	}
	printPrediction(cmd.OutOrStdout(), pred)
	return nil
}

func printPrediction(w io.Writer, pred predictor.Prediction) {
	fmt.Fprintf(w, "%s: draw %d at %s", pred.Status, pred.DrawNumber, pred.TargetTime)
	if pred.TimeToNext != "" {
		fmt.Fprintf(w, " (in %s)", pred.TimeToNext)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Predicted number: %d\n", pred.PredictedNumber)
	fmt.Fprintf(w, "Confidence:       %.2f%%\n", pred.Confidence)
	fmt.Fprintf(w, "Method:           %s\n\n", pred.Method)

	fmt.Fprintln(w, "Ranking:")
	for i, ds := range pred.NumberWise.Ranked {
		fmt.Fprintf(w, "  %2d. %d  %6.2f%%  %s\n", i+1, ds.Digit, ds.Score, strings.Repeat("#", int(ds.Score/2)))
	}
	if pred.RunID != "" {
		fmt.Fprintf(w, "\nrun %s\n", pred.RunID)
	}
}

// #endregion predict

// #region stats

func runStats(cmd *cobra.Command, args []string) error {
	var st predictor.Statistics
	if remoteAddr != "" {
		client, err := rpc.NewClient(remoteAddr)
		if err != nil {
			return err
		}
		defer client.Close()
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		if st, err = client.Statistics(ctx); err != nil {
			return fmt.Errorf("remote stats: %w", err)
		}
	} else {
		p, store, err := openPredictor(cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		st = p.Statistics()
	}

	if jsonOut {
		return writeJSON(cmd.OutOrStdout(), st)
	}
	printStatistics(cmd.OutOrStdout(), st)
	return nil
}

func printStatistics(w io.Writer, st predictor.Statistics) {
	fmt.Fprintf(w, "Draws analyzed: %d\n", st.TotalDrawsAnalyzed)
	fmt.Fprintf(w, "Most frequent:  %d\n", st.MostFrequentNumber)
	fmt.Fprintf(w, "Least frequent: %d\n", st.LeastFrequentNumber)
	fmt.Fprintf(w, "Recent trend:   %s\n", joinInts(st.RecentTrend))
	fmt.Fprintf(w, "Hot:            %s\n", joinInts(st.Hot))
	fmt.Fprintf(w, "Cold:           %s\n\n", joinInts(st.Cold))

	digits := make([]int, 0, len(st.FrequencyDistribution))
	for d := range st.FrequencyDistribution {
		digits = append(digits, d)
	}
	slices.Sort(digits)
	fmt.Fprintln(w, "Frequency:")
	for _, d := range digits {
		fmt.Fprintf(w, "  %d: %d\n", d, st.FrequencyDistribution[d])
	}
}

// #endregion stats

// #region helpers

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func joinInts(ds []int) string {
	if len(ds) == 0 {
		return "-"
	}
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = fmt.Sprint(d)
	}
	return strings.Join(parts, ", ")
}

// #endregion helpers
