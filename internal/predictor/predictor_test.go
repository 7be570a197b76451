package predictor

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/fatafat-forecast/internal/history"
	"github.com/danielpatrickdp/fatafat-forecast/internal/logging"
	"github.com/danielpatrickdp/fatafat-forecast/internal/scoring"
	"github.com/danielpatrickdp/fatafat-forecast/internal/transition"
)

// #region helpers

var ist = time.FixedZone("IST", 5*3600+1800)

func observations(digits ...int) []history.Observation {
	out := make([]history.Observation, len(digits))
	for i, d := range digits {
		out[i] = history.Observation{
			Date:      fmt.Sprintf("2025-03-%02d", 1+i/8),
			SlotTime:  fmt.Sprintf("%d:30", 10+i%8),
			SlotIndex: 1 + i%8,
			Digit:     d,
			DayLabel:  "Friday",
		}
	}
	return out
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Location = ist
	return cfg
}

func newPredictor(t *testing.T, store Store, digits ...int) *Predictor {
	t.Helper()
	h, err := history.New(observations(digits...)...)
	require.NoError(t, err)
	p, err := New(h, store, testConfig(), nil)
	require.NoError(t, err)
	return p
}

func tempStore(t *testing.T) *history.Store {
	t.Helper()
	s, err := history.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// 08:40 UTC is 14:10 in IST
var utcNow = time.Date(2025, 3, 14, 8, 40, 0, 0, time.UTC)

// #endregion helpers

// #region constructor-tests

func TestNew_NilHistory(t *testing.T) {
	_, err := New(nil, nil, DefaultConfig(), nil)
	require.Error(t, err)
}

func TestNew_BadSchedule(t *testing.T) {
	h, _ := history.New()
	cfg := testConfig()
	cfg.Schedule.ResultTimes = nil
	_, err := New(h, nil, cfg, nil)
	require.Error(t, err)
}

// #endregion constructor-tests

// #region number-wise-tests

func TestNumberWise_UsesLocalHour(t *testing.T) {
	p := newPredictor(t, nil)

	nw := p.NumberWise(utcNow)
	require.InDelta(t, 3.2, nw.Breakdowns[4].TimeOfDay, 1e-9)
	require.Equal(t, 4, nw.TopDigit)

	var sum float64
	for _, s := range nw.Scores {
		sum += s
	}
	require.InDelta(t, 100.0, sum, 1e-6)
}

func TestNumberWise_SequenceAnalysis(t *testing.T) {
	p := newPredictor(t, nil, 1, 2, 1, 2, 1, 2, 1, 3, 1)

	sa := p.NumberWise(utcNow).SequenceAnalysis
	require.NotNil(t, sa.LastNumber)
	require.Equal(t, 1, *sa.LastNumber)
	require.Equal(t, []int{3, 1}, sa.LastPair)
	require.Equal(t, []int{1, 3, 1}, sa.LastTriple)
	require.Equal(t, []transition.FollowerCount{{Digit: 2, Count: 3}, {Digit: 3, Count: 1}}, sa.SingleFollowers)
	require.Empty(t, sa.PairFollowers)
	require.Empty(t, sa.TripleFollowers)
}

func TestAnalyze_EmptyHistory(t *testing.T) {
	p := newPredictor(t, nil)

	sa := Analyze(p.Snapshot())
	require.Nil(t, sa.LastNumber)
	require.Nil(t, sa.LastPair)
	require.NotNil(t, sa.SingleFollowers)
}

// #endregion number-wise-tests

// #region current-tests

func TestCurrent_Fields(t *testing.T) {
	p := newPredictor(t, nil, 7, 7, 7, 7, 7, 7)

	pred := p.Current(utcNow, "test")
	require.Equal(t, 7, pred.PredictedNumber)
	require.Equal(t, pred.NumberWise.TopScore, pred.Confidence)
	require.Equal(t, scoring.MethodHotNumber, pred.Method)
	// 14:10 local: next result at 15:00
	require.Equal(t, "NEXT ROUND", pred.Status)
	require.Equal(t, "15:00", pred.TargetTime)
	require.Equal(t, 4, pred.DrawNumber)
	require.Equal(t, "50m", pred.TimeToNext)
	require.Equal(t, p.Snapshot().ID, pred.SnapshotID)
	require.NotEmpty(t, pred.RunID)
}

func TestCurrent_LogsPrediction(t *testing.T) {
	store := tempStore(t)
	p := newPredictor(t, store, 3, 1, 4, 1, 5)

	pred := p.Current(utcNow, "api")

	entries, err := logging.ListPredictions(store.DB(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, pred.RunID, entries[0].RunID)
	require.Equal(t, pred.PredictedNumber, entries[0].TopDigit)
	require.Equal(t, "api", entries[0].TriggerType)
	require.Equal(t, 5, entries[0].SequenceLen)
	require.Contains(t, entries[0].ScoresJSON, `"hour":14`)
}

// #endregion current-tests

// #region statistics-tests

func TestStatistics(t *testing.T) {
	p := newPredictor(t, nil, 5, 2, 5, 9, 2, 5, 0)

	st := p.Statistics()
	require.Equal(t, 7, st.TotalDrawsAnalyzed)
	require.Equal(t, 5, st.MostFrequentNumber)
	require.Equal(t, 0, st.LeastFrequentNumber)
	require.Equal(t, []int{5, 9, 2, 5, 0}, st.RecentTrend)
	require.Equal(t, map[int]int{0: 1, 2: 2, 5: 3, 9: 1}, st.FrequencyDistribution)
}

func TestStatistics_Empty(t *testing.T) {
	p := newPredictor(t, nil)

	st := p.Statistics()
	require.Zero(t, st.TotalDrawsAnalyzed)
	require.Zero(t, st.MostFrequentNumber)
	require.Zero(t, st.LeastFrequentNumber)
	require.Empty(t, st.RecentTrend)
	require.Empty(t, st.FrequencyDistribution)
}

// #endregion statistics-tests

// #region mutation-tests

func TestIngest_InvalidatesAndPersists(t *testing.T) {
	store := tempStore(t)
	p := newPredictor(t, store, 1, 2)

	before := p.Snapshot()
	require.NoError(t, p.Ingest(observations(1, 2, 8)[2]))

	after := p.Snapshot()
	require.NotSame(t, before, after)
	require.Equal(t, 3, after.SequenceLen)
	require.Equal(t, 3, p.Statistics().TotalDrawsAnalyzed)

	n, err := store.Count()
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

// gatedStore holds its first Append open after the rows are committed.
type gatedStore struct {
	*history.Store
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) Append(obs ...history.Observation) error {
	if err := g.Store.Append(obs...); err != nil {
		return err
	}
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return nil
}

func TestIngest_ConcurrentKeepsStoreOrder(t *testing.T) {
	store := &gatedStore{
		Store:   tempStore(t),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	p := newPredictor(t, store)
	obs := observations(1, 2)

	errs := make(chan error, 2)
	go func() { errs <- p.Ingest(obs[0]) }()
	<-store.entered
	go func() { errs <- p.Ingest(obs[1]) }()

	// give the second ingest time to overtake if it is not serialized
	time.Sleep(50 * time.Millisecond)
	close(store.release)
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)

	stored, err := store.Load()
	require.NoError(t, err)
	storedDigits := make([]int, len(stored))
	for i, o := range stored {
		storedDigits[i] = o.Digit
	}
	require.Equal(t, []int{1, 2}, storedDigits)
	require.Equal(t, storedDigits, p.History().Digits())
}

func TestIngest_RejectsInvalid(t *testing.T) {
	store := tempStore(t)
	p := newPredictor(t, store, 1, 2)
	snap := p.Snapshot()

	bad := observations(11)
	err := p.Ingest(bad...)
	require.ErrorIs(t, err, history.ErrInvalidObservation)
	require.Same(t, snap, p.Snapshot())

	n, _ := store.Count()
	require.Zero(t, n)
}

func TestIngest_Empty(t *testing.T) {
	p := newPredictor(t, nil, 1)
	snap := p.Snapshot()
	require.NoError(t, p.Ingest())
	require.Same(t, snap, p.Snapshot())
}

func TestReplace(t *testing.T) {
	store := tempStore(t)
	p := newPredictor(t, store, 1, 2, 3)
	p.Snapshot()

	require.NoError(t, p.Replace(observations(9, 9)))
	require.Equal(t, []int{9, 9}, p.History().Digits())
	require.Equal(t, 2, p.Snapshot().SequenceLen)

	stored, err := store.Load()
	require.NoError(t, err)
	require.Len(t, stored, 2)
}

func TestRefresh(t *testing.T) {
	p := newPredictor(t, nil, 4, 4)
	first := p.Snapshot()

	p.Refresh()
	p.Refresh()
	require.Equal(t, uint64(2), p.CacheStats().Generation)
	require.NotSame(t, first, p.Snapshot())
}

// #endregion mutation-tests
