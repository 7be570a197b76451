package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/fatafat-forecast/internal/config"
	"github.com/danielpatrickdp/fatafat-forecast/internal/history"
	"github.com/danielpatrickdp/fatafat-forecast/internal/predictor"
	"github.com/danielpatrickdp/fatafat-forecast/internal/scoring"
)

var now = time.Date(2025, 3, 17, 12, 0, 0, 0, time.UTC)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	c := config.Default()
	c.Timezone = "UTC"
	c.Storage.DBPath = filepath.Join(t.TempDir(), "fatafat.db")
	return c
}

func openStore(t *testing.T, c config.Config) *history.Store {
	t.Helper()
	store, err := history.NewStore(c.Storage.DBPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// #region bootstrap-tests

func TestLoadObservations_SeedsSample(t *testing.T) {
	c := testConfig(t)
	c.Sample.Days = 7
	store := openStore(t, c)

	obs, err := loadObservations(store, c, now, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, obs, 52)

	n, err := store.Count()
	require.NoError(t, err)
	require.Equal(t, 52, n)

	again, err := loadObservations(store, c, now, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, obs, again, "a seeded store is loaded, not reseeded")
}

func TestLoadObservations_SampleIsReproducible(t *testing.T) {
	c := testConfig(t)
	c.Sample.Days = 3
	require.Equal(t, sampleHistory(c, now), sampleHistory(c, now))
}

func TestLoadObservations_PrefersHistoryFile(t *testing.T) {
	c := testConfig(t)
	c.Storage.HistoryFile = filepath.Join(t.TempDir(), "history.json")
	file := []history.Observation{
		{Date: "2025-03-14", SlotTime: "10:30", SlotIndex: 1, Digit: 4, DayLabel: "Friday"},
		{Date: "2025-03-14", SlotTime: "12:00", SlotIndex: 2, Digit: 8, DayLabel: "Friday"},
	}
	require.NoError(t, history.WriteJSON(c.Storage.HistoryFile, file))

	obs, err := loadObservations(openStore(t, c), c, now, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, file, obs)
}

func TestLoadObservations_EmptyWithoutSeeding(t *testing.T) {
	c := testConfig(t)
	c.Sample.Days = 0

	_, err := loadObservations(openStore(t, c), c, now, zap.NewNop())
	require.ErrorIs(t, err, history.ErrNoHistory)
}

func TestOpenPredictor(t *testing.T) {
	c := testConfig(t)
	c.Sample.Days = 2

	p, store, err := openPredictor(c, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()
	require.Positive(t, p.History().Len())
	require.Equal(t, time.UTC, p.Location())
}

// #endregion bootstrap-tests

// #region output-tests

func TestPrintPrediction(t *testing.T) {
	pred := predictor.Prediction{
		PredictedNumber: 7,
		Confidence:      21.5,
		Method:          scoring.MethodHotNumber,
		Status:          "NEXT ROUND",
		TargetTime:      "15:00",
		DrawNumber:      4,
		TimeToNext:      "50m",
		RunID:           "run-1",
	}
	pred.NumberWise.Ranked = []scoring.DigitScore{{Digit: 7, Score: 21.5}, {Digit: 1, Score: 10}}

	var buf bytes.Buffer
	printPrediction(&buf, pred)
	out := buf.String()
	require.Contains(t, out, "NEXT ROUND: draw 4 at 15:00 (in 50m)")
	require.Contains(t, out, "Predicted number: 7")
	require.Contains(t, out, "Confidence:       21.50%")
	require.Contains(t, out, "   1. 7   21.50%  ##########")
	require.Contains(t, out, "run run-1")
}

func TestPrintStatistics(t *testing.T) {
	var buf bytes.Buffer
	printStatistics(&buf, predictor.Statistics{
		TotalDrawsAnalyzed:    3,
		MostFrequentNumber:    5,
		LeastFrequentNumber:   2,
		RecentTrend:           []int{5, 5, 2},
		FrequencyDistribution: map[int]int{5: 2, 2: 1},
		Hot:                   []int{5, 2},
		Cold:                  []int{5, 2},
	})
	out := buf.String()
	require.Contains(t, out, "Draws analyzed: 3")
	require.Contains(t, out, "Recent trend:   5, 5, 2")
	require.Contains(t, out, "Frequency:\n  2: 1\n  5: 2\n")
}

func TestJoinInts_Empty(t *testing.T) {
	require.Equal(t, "-", joinInts(nil))
}

// #endregion output-tests
