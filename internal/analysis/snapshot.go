package analysis

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/fatafat-forecast/internal/frequency"
	"github.com/danielpatrickdp/fatafat-forecast/internal/transition"
)

// #region snapshot

// Snapshot is the memoized pattern bundle the scoring engine reads.
// It is immutable once built and shared between readers.
type Snapshot struct {
	ID          string
	BuiltAt     time.Time
	SequenceLen int
	Frequency   frequency.Stats
	Transitions transition.Tables
	RecentTrend []int
}

// BuildSnapshot runs the transition builder and the frequency analyzer over seq.
func BuildSnapshot(seq []int, cfg frequency.Config) *Snapshot {
	stats := frequency.Analyze(seq, cfg)
	return &Snapshot{
		ID:          uuid.New().String(),
		BuiltAt:     time.Now().UTC(),
		SequenceLen: len(seq),
		Frequency:   stats,
		Transitions: transition.Build(seq),
		RecentTrend: stats.RecentTrend,
	}
}

// CurrentContext returns the order-k context formed by the tail of the recent trend.
func (s *Snapshot) CurrentContext(k int) (transition.Context, bool) {
	return transition.CurrentContext(s.RecentTrend, k)
}

// CurrentFollowers returns the followers of the current order-k context.
// ok is false when fewer than k digits exist or the context was never seen.
func (s *Snapshot) CurrentFollowers(k int) (transition.Followers, bool) {
	ctx, ok := s.CurrentContext(k)
	if !ok {
		return transition.Followers{}, false
	}
	return s.Transitions.Order(k).Lookup(ctx)
}

// Recent returns a copy of the last n digits of the recent trend.
func (s *Snapshot) Recent(n int) []int {
	n = min(max(n, 0), len(s.RecentTrend))
	return slices.Clone(s.RecentTrend[len(s.RecentTrend)-n:])
}

// #endregion snapshot
