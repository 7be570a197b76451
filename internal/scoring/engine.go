package scoring

import (
	"cmp"
	"slices"
	"time"

	"github.com/danielpatrickdp/fatafat-forecast/internal/analysis"
	"github.com/danielpatrickdp/fatafat-forecast/internal/transition"
)

// #region engine

// Engine blends frequency, recency, transition and bias terms into a
// normalized distribution. It holds no state beyond its config.
type Engine struct {
	config Config
}

// NewEngine creates an engine with the given weights.
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// Config returns the weights in use.
func (e *Engine) Config() Config {
	return e.config
}

// #endregion engine

// #region score-digit

// ScoreDigit computes the clamped, not yet normalized, score of digit d.
// Terms are applied in a fixed order; missing history contributes 0.
func (e *Engine) ScoreDigit(d int, snap *analysis.Snapshot, now time.Time) Breakdown {
	b := Breakdown{Digit: d, Base: e.config.BaseScore}

	b.Frequency = e.frequencyTerm(d, snap)
	b.Recency = e.recencyTerm(d, snap)
	b.TransitionByOrder, b.Transition = e.transitionTerm(d, snap)
	b.HotCold = e.hotColdTerm(d, snap)
	b.TimeOfDay = e.hourTerm(d, now)
	if slices.Contains(e.config.LuckyDigits, d) {
		b.Bias = e.config.LuckyBonus
	}

	b.Raw = b.Base + b.Frequency + b.Recency + b.Transition + b.HotCold + b.TimeOfDay + b.Bias
	b.Clamped = clamp(b.Raw, e.config.MinScore, e.config.MaxScore)
	return b
}

// #endregion score-digit

// #region distribution

// Distribution scores all ten digits, normalizes them to sum to 100 and
// ranks them descending with ties broken by ascending digit.
func (e *Engine) Distribution(snap *analysis.Snapshot, now time.Time) Distribution {
	var dist Distribution
	var sum float64
	for d := 0; d < transition.NumDigits; d++ {
		b := e.ScoreDigit(d, snap, now)
		dist.Breakdowns[d] = b
		dist.Scores[d] = b.Clamped
		sum += b.Clamped
	}

	// unreachable with a positive floor, kept for zero-floor configs
	if sum > 0 {
		for d := range dist.Scores {
			dist.Scores[d] = dist.Scores[d] / sum * 100
		}
	}

	dist.Ranked = make([]DigitScore, 0, transition.NumDigits)
	for d, s := range dist.Scores {
		dist.Ranked = append(dist.Ranked, DigitScore{Digit: d, Score: s})
	}
	slices.SortFunc(dist.Ranked, func(a, b DigitScore) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Digit, b.Digit)
	})
	dist.TopDigit = dist.Ranked[0].Digit
	dist.TopScore = dist.Ranked[0].Score
	return dist
}

// #endregion distribution

// #region terms

// frequencyTerm: (count/total) * 100 * weight, 0 without history.
func (e *Engine) frequencyTerm(d int, snap *analysis.Snapshot) float64 {
	total := snap.Frequency.Total
	if total == 0 {
		return 0
	}
	share := float64(snap.Frequency.Count(d)) / float64(total) * 100
	return share * e.config.FrequencyWeight
}

// recencyTerm: share of d in the tail of the recent trend, scaled.
func (e *Engine) recencyTerm(d int, snap *analysis.Snapshot) float64 {
	window := snap.Recent(e.config.RecencyWindow)
	if len(window) == 0 {
		return 0
	}
	var occ int
	for _, v := range window {
		if v == d {
			occ++
		}
	}
	return float64(occ) / float64(len(window)) * e.config.RecencyWeight
}

// transitionTerm looks up the current order-1/2/3 contexts and returns the
// per-order contributions and their capped sum. Unknown contexts and
// contexts longer than the trend contribute 0.
func (e *Engine) transitionTerm(d int, snap *analysis.Snapshot) ([transition.MaxOrder]float64, float64) {
	var byOrder [transition.MaxOrder]float64
	var total float64
	for k := 1; k <= transition.MaxOrder; k++ {
		followers, ok := snap.CurrentFollowers(k)
		if !ok || followers.Total() == 0 {
			continue
		}
		byOrder[k-1] = followers.Probability(d) * 100 * e.config.TransitionWeights[k-1]
		total += byOrder[k-1]
	}
	return byOrder, min(total, e.config.TransitionCap)
}

func (e *Engine) hotColdTerm(d int, snap *analysis.Snapshot) float64 {
	var v float64
	if snap.Frequency.IsHot(d) {
		v += e.config.HotBonus
	}
	if snap.Frequency.IsCold(d) {
		v -= e.config.ColdPenalty
	}
	return v
}

// hourTerm: with h = hour mod 10, digit h gains (h/10) * weight.
func (e *Engine) hourTerm(d int, now time.Time) float64 {
	h := now.Hour() % 10
	if d != h {
		return 0
	}
	return float64(h) / 10 * e.config.HourWeight
}

// #endregion terms

// #region helpers

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// #endregion helpers
