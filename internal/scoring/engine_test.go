package scoring

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/fatafat-forecast/internal/analysis"
	"github.com/danielpatrickdp/fatafat-forecast/internal/frequency"
)

// #region helpers

func at(hour int) time.Time {
	return time.Date(2025, 3, 14, hour, 0, 0, 0, time.UTC)
}

func snapshotOf(seq ...int) *analysis.Snapshot {
	return analysis.BuildSnapshot(seq, frequency.DefaultConfig())
}

func sumScores(d Distribution) float64 {
	var s float64
	for _, v := range d.Scores {
		s += v
	}
	return s
}

// #endregion helpers

// #region distribution-tests

func TestDistribution_EmptyHistory(t *testing.T) {
	e := NewEngine(DefaultConfig())
	dist := e.Distribution(snapshotOf(), at(14))

	// base 5, lucky digits +3, hour 14 gives digit 4 +3.2
	require.InDelta(t, 68.2, func() float64 {
		var raw float64
		for _, b := range dist.Breakdowns {
			raw += b.Clamped
		}
		return raw
	}(), 1e-9)
	require.InDelta(t, 8.2/68.2*100, dist.Scores[4], 1e-9)
	require.InDelta(t, 5/68.2*100, dist.Scores[0], 1e-9)
	require.InDelta(t, 100.0, sumScores(dist), 1e-6)

	require.Equal(t, 4, dist.TopDigit)
	got := make([]int, 0, len(dist.Ranked))
	for _, r := range dist.Ranked {
		got = append(got, r.Digit)
	}
	require.Equal(t, []int{4, 1, 2, 3, 5, 8, 0, 6, 7, 9}, got, "ties rank by ascending digit")
}

func TestDistribution_SumsToHundredAndBounded(t *testing.T) {
	e := NewEngine(DefaultConfig())
	rng := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 200; i++ {
		seq := make([]int, rng.IntN(150))
		for j := range seq {
			seq[j] = rng.IntN(10)
		}
		hour := rng.IntN(24)
		dist := e.Distribution(snapshotOf(seq...), at(hour))

		require.InDelta(t, 100.0, sumScores(dist), 1e-6)
		for d, b := range dist.Breakdowns {
			require.GreaterOrEqual(t, b.Clamped, 1.0, "digit %d", d)
			require.LessOrEqual(t, b.Clamped, 50.0, "digit %d", d)
			require.LessOrEqual(t, b.Transition, 35.0, "digit %d", d)
			require.Greater(t, dist.Scores[d], 0.0)
		}
		for j := 1; j < len(dist.Ranked); j++ {
			prev, cur := dist.Ranked[j-1], dist.Ranked[j]
			require.True(t, prev.Score > cur.Score || (prev.Score == cur.Score && prev.Digit < cur.Digit))
		}
		require.Equal(t, dist.Ranked[0].Digit, dist.TopDigit)
	}
}

func TestDistribution_Deterministic(t *testing.T) {
	e := NewEngine(DefaultConfig())
	seq := []int{5, 2, 8, 8, 1, 0, 3, 5, 5, 9, 2, 4, 7, 5}

	a := e.Distribution(snapshotOf(seq...), at(17))
	b := e.Distribution(snapshotOf(seq...), at(17))
	if diff := cmp.Diff(a, b, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("distribution differs (-first +second):\n%s", diff)
	}
}

func TestDistribution_ClampsCeiling(t *testing.T) {
	e := NewEngine(DefaultConfig())
	dist := e.Distribution(snapshotOf(7, 7, 7, 7, 7, 7), at(10))

	b := dist.Breakdowns[7]
	// 5 + 25 + 20 + 35 + 10 - 5
	require.InDelta(t, 90.0, b.Raw, 1e-9)
	require.Equal(t, 50.0, b.Clamped)
	require.InDelta(t, 50.0/110*100, dist.Scores[7], 1e-9)
	require.Equal(t, 7, dist.TopDigit)
}

// #endregion distribution-tests

// #region term-tests

func TestScoreDigit_TransitionCap(t *testing.T) {
	e := NewEngine(DefaultConfig())
	b := e.ScoreDigit(3, snapshotOf(3, 3, 3, 3), at(12))

	require.InDelta(t, 30.0, b.TransitionByOrder[0], 1e-9)
	require.InDelta(t, 25.0, b.TransitionByOrder[1], 1e-9)
	require.InDelta(t, 20.0, b.TransitionByOrder[2], 1e-9)
	require.Equal(t, 35.0, b.Transition)

	other := e.ScoreDigit(4, snapshotOf(3, 3, 3, 3), at(12))
	require.Zero(t, other.Transition)
}

func TestScoreDigit_FavorsObservedFollower(t *testing.T) {
	e := NewEngine(DefaultConfig())
	snap := snapshotOf(1, 2, 1, 2, 1, 2, 1, 3, 1)

	two := e.ScoreDigit(2, snap, at(12))
	three := e.ScoreDigit(3, snap, at(12))

	require.InDelta(t, 22.5, two.TransitionByOrder[0], 1e-9)
	require.InDelta(t, 7.5, three.TransitionByOrder[0], 1e-9)
	// (3, 1) and (1, 3, 1) have no recorded followers
	require.Zero(t, two.TransitionByOrder[1])
	require.Zero(t, two.TransitionByOrder[2])
	require.Greater(t, two.Transition, three.Transition)
}

func TestScoreDigit_Terms(t *testing.T) {
	e := NewEngine(DefaultConfig())
	snap := snapshotOf(4, 4, 6, 4, 9)

	b := e.ScoreDigit(4, snap, at(14))
	require.Equal(t, 5.0, b.Base)
	require.InDelta(t, 3.0/5*100*0.25, b.Frequency, 1e-9)
	require.InDelta(t, 3.0/5*20, b.Recency, 1e-9)
	require.InDelta(t, 3.2, b.TimeOfDay, 1e-9)
	require.Zero(t, b.Bias)

	// ranking is [4, 6, 9]; every digit is both hot and cold
	require.Equal(t, 5.0, b.HotCold)

	lucky := e.ScoreDigit(8, snap, at(14))
	require.Equal(t, 3.0, lucky.Bias)
	require.Zero(t, lucky.Frequency)
	require.Zero(t, lucky.TimeOfDay)
}

func TestScoreDigit_HourZeroGivesNothing(t *testing.T) {
	e := NewEngine(DefaultConfig())
	b := e.ScoreDigit(0, snapshotOf(), at(20))
	require.Zero(t, b.TimeOfDay)
	require.Equal(t, 5.0, b.Clamped)
}

// #endregion term-tests

// #region explain-tests

func TestExplain(t *testing.T) {
	snap := snapshotOf(1, 1, 1, 2, 2, 2, 3, 3, 3, 4, 9)

	tests := []struct {
		name string
		top  int
		want Method
	}{
		{"hot digit", 1, MethodHotNumber},
		{"recent digit", 9, MethodRecentTrend},
		{"neither", 6, MethodStatistical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Explain(Distribution{TopDigit: tt.top}, snap))
		})
	}
}

func TestExplain_EmptyHistory(t *testing.T) {
	e := NewEngine(DefaultConfig())
	snap := snapshotOf()
	require.Equal(t, MethodStatistical, Explain(e.Distribution(snap, at(14)), snap))
}

// #endregion explain-tests
