package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/fatafat-forecast/internal/history"
	"github.com/danielpatrickdp/fatafat-forecast/internal/replay"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to fatafat.db")
	last := flag.Int("last", 80, "number of most recent draws to export")
	warmup := flag.Int("warmup", replay.DefaultConfig().Warmup, "draws consumed before the first prediction")
	outPath := flag.String("out", "", "output fixture JSON path")
	desc := flag.String("desc", "", "fixture description")
	flag.Parse()

	if *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/db --out path/to/fixture.json [--last N] [--warmup N]")
		os.Exit(2)
	}

	if err := run(*dbPath, *last, *warmup, *desc, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region export

func run(dbPath string, last, warmup int, desc, outPath string) error {
	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	obs, err := store.Load()
	if err != nil {
		return err
	}
	f, err := buildFixture(obs, last, warmup, desc)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}

	fmt.Printf("exported %d draws to %s (%d predictions, %d hits, %d top hits)\n",
		len(f.Observations), outPath, f.Expected.Total, f.Expected.Hits, f.Expected.TopHits)
	return nil
}

// buildFixture takes the last draws of obs and pins the hit counts the
// current weights produce on them.
func buildFixture(obs []history.Observation, last, warmup int, desc string) (*replay.Fixture, error) {
	if last > 0 && len(obs) > last {
		obs = obs[len(obs)-last:]
	}
	if len(obs) <= warmup {
		return nil, fmt.Errorf("need more than %d draws, have %d", warmup, len(obs))
	}
	if desc == "" {
		desc = fmt.Sprintf("%d draws from %s to %s", len(obs), obs[0].Date, obs[len(obs)-1].Date)
	}

	fc := replay.FixtureConfig{Warmup: warmup}
	s := replay.Summarize(replay.Backtest(obs, fc.ToConfig()))
	return &replay.Fixture{
		Description:  desc,
		Config:       fc,
		Observations: obs,
		Expected: replay.FixtureExpected{
			Total:   s.Total,
			Hits:    s.Hits,
			TopHits: s.TopHits,
		},
	}, nil
}

// #endregion export
