package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/danielpatrickdp/fatafat-forecast/internal/history"
	"github.com/danielpatrickdp/fatafat-forecast/internal/logging"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to fatafat.db")
	last := flag.Int("last", 20, "show N most recent predictions")
	runID := flag.String("run", "", "show single prediction detail")
	trigger := flag.String("trigger", "", "filter list to one trigger (api, rpc, cli)")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/fatafat.db [--last N] [--run id] [--trigger name] [--json]")
		os.Exit(2)
	}

	store, err := history.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if *runID != "" {
		err = runDetailMode(os.Stdout, store, *runID, *jsonOut)
	} else {
		err = runListMode(os.Stdout, store, *last, *trigger, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	RunID       string  `json:"run_id"`
	SequenceLen int     `json:"sequence_len"`
	TopDigit    int     `json:"top_digit"`
	TopScore    float64 `json:"top_score"`
	Method      string  `json:"method"`
	Trigger     string  `json:"trigger"`
	Hour        *int    `json:"hour,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

func runListMode(w io.Writer, store *history.Store, last int, trigger string, jsonOut bool) error {
	entries, err := logging.ListPredictions(store.DB(), last)
	if err != nil {
		return err
	}

	// store returns DESC, reverse for chronological
	rows := make([]listRow, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if trigger != "" && e.TriggerType != trigger {
			continue
		}
		lr := listRow{
			RunID:       e.RunID,
			SequenceLen: e.SequenceLen,
			TopDigit:    e.TopDigit,
			TopScore:    e.TopScore,
			Method:      e.Method,
			Trigger:     e.TriggerType,
			CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		}
		if rec := parseRecord(e.ScoresJSON); rec != nil {
			lr.Hour = &rec.Hour
		}
		rows = append(rows, lr)
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "no predictions found")
		return nil
	}

	if jsonOut {
		return printJSON(w, rows)
	}
	printListTable(w, rows)
	return nil
}

func printListTable(w io.Writer, rows []listRow) {
	fmt.Fprintf(w, "%-8s  %5s  %5s  %7s  %-20s  %-7s  %4s  %s\n",
		"Run", "Draws", "Digit", "Score", "Method", "Trigger", "Hour", "Time")
	fmt.Fprintf(w, "%-8s+-%5s+-%5s+-%7s+-%-20s+-%-7s+-%4s+-%s\n",
		"--------", "-----", "-----", "-------", "--------------------", "-------", "----", "--------------------")

	digits := make(map[int]int)
	for _, r := range rows {
		hour := "-"
		if r.Hour != nil {
			hour = fmt.Sprint(*r.Hour)
		}
		fmt.Fprintf(w, "%-8s  %5d  %5d  %6.2f%%  %-20s  %-7s  %4s  %s\n",
			shortID(r.RunID), r.SequenceLen, r.TopDigit, r.TopScore, r.Method, r.Trigger, hour, r.CreatedAt)
		digits[r.TopDigit]++
	}

	fmt.Fprintf(w, "\nPredicted digits:\n")
	for d := 0; d <= 9; d++ {
		if n := digits[d]; n > 0 {
			fmt.Fprintf(w, "  %d  %s %d\n", d, strings.Repeat("#", n), n)
		}
	}
}

// #endregion list-mode

// #region detail-mode

type detailOutput struct {
	logging.PredictionEntry
	Record *logging.PredictionRecord `json:"record,omitempty"`
}

func runDetailMode(w io.Writer, store *history.Store, runID string, jsonOut bool) error {
	e, err := logging.GetPrediction(store.DB(), runID)
	if err != nil {
		return err
	}
	out := detailOutput{PredictionEntry: e, Record: parseRecord(e.ScoresJSON)}

	if jsonOut {
		return printJSON(w, out)
	}

	fmt.Fprintf(w, "Run:       %s\n", e.RunID)
	fmt.Fprintf(w, "Snapshot:  %s\n", e.SnapshotID)
	fmt.Fprintf(w, "Created:   %s\n", e.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Trigger:   %s\n", e.TriggerType)
	fmt.Fprintf(w, "Draws:     %d\n", e.SequenceLen)
	fmt.Fprintf(w, "Predicted: %d (%.2f%%)\n", e.TopDigit, e.TopScore)
	fmt.Fprintf(w, "Method:    %s\n", e.Method)

	if rec := out.Record; rec != nil {
		fmt.Fprintf(w, "\nScored at hour %d (%s)\n", rec.Hour, rec.Timezone)
		fmt.Fprintf(w, "Recent:  %v\n", rec.Recent)
		fmt.Fprintf(w, "Hot:     %v\n", rec.Hot)
		fmt.Fprintf(w, "Cold:    %v\n", rec.Cold)
		fmt.Fprintf(w, "\nDistribution:\n")
		for _, d := range rec.Ranked {
			fmt.Fprintf(w, "  %d  %6.2f%%\n", d, rec.Scores[d])
		}
	}
	return nil
}

// #endregion detail-mode

// #region output

func parseRecord(scoresJSON string) *logging.PredictionRecord {
	if scoresJSON == "" {
		return nil
	}
	var rec logging.PredictionRecord
	if err := json.Unmarshal([]byte(scoresJSON), &rec); err == nil && len(rec.Ranked) > 0 {
		return &rec
	}
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
