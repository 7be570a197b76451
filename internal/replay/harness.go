package replay

import (
	"slices"
	"time"

	"github.com/danielpatrickdp/fatafat-forecast/internal/analysis"
	"github.com/danielpatrickdp/fatafat-forecast/internal/frequency"
	"github.com/danielpatrickdp/fatafat-forecast/internal/history"
	"github.com/danielpatrickdp/fatafat-forecast/internal/scoring"
)

// #region types
// Config bundles the analysis and scoring settings for a backtest run.
type Config struct {
	Warmup    int // draws consumed before the first prediction
	TopN      int // size of the "top-N" hit window
	Frequency frequency.Config
	Scoring   scoring.Config
}

// DefaultConfig returns production weights with a ten-draw warmup.
func DefaultConfig() Config {
	return Config{
		Warmup:    10,
		TopN:      3,
		Frequency: frequency.DefaultConfig(),
		Scoring:   scoring.DefaultConfig(),
	}
}

// Result is the outcome of predicting one recorded draw from the draws
// before it.
type Result struct {
	Index     int            `json:"index"`
	Draw      string         `json:"draw"`
	Actual    int            `json:"actual"`
	Predicted int            `json:"predicted"`
	Score     float64        `json:"score"`
	Top       []int          `json:"top"`
	Method    scoring.Method `json:"method"`
	Hit       bool           `json:"hit"`
	TopHit    bool           `json:"top_hit"`
}

// Summary provides aggregate stats from a backtest run.
type Summary struct {
	Total    int                    `json:"total"`
	Hits     int                    `json:"hits"`
	TopHits  int                    `json:"top_hits"`
	HitRate  float64                `json:"hit_rate"`
	TopRate  float64                `json:"top_rate"`
	ByMethod map[scoring.Method]int `json:"hits_by_method"`
}

// #endregion types

// #region backtest
// Backtest predicts every draw after the warmup using only the prefix that
// precedes it. The hour comes from the draw's own slot time; observations
// whose slot does not parse are scored at hour 0.
func Backtest(obs []history.Observation, config Config) []Result {
	if config.Warmup < 1 {
		config.Warmup = 1
	}
	if config.TopN < 1 {
		config.TopN = 1
	}

	engine := scoring.NewEngine(config.Scoring)
	digits := make([]int, len(obs))
	for i, o := range obs {
		digits[i] = o.Digit
	}

	results := make([]Result, 0, max(len(obs)-config.Warmup, 0))
	for i := config.Warmup; i < len(obs); i++ {
		snap := analysis.BuildSnapshot(digits[:i], config.Frequency)
		dist := engine.Distribution(snap, drawTime(obs[i]))

		top := make([]int, 0, config.TopN)
		for _, ds := range dist.Ranked[:min(config.TopN, len(dist.Ranked))] {
			top = append(top, ds.Digit)
		}
		actual := obs[i].Digit
		results = append(results, Result{
			Index:     i,
			Draw:      obs[i].String(),
			Actual:    actual,
			Predicted: dist.TopDigit,
			Score:     dist.TopScore,
			Top:       top,
			Method:    scoring.Explain(dist, snap),
			Hit:       dist.TopDigit == actual,
			TopHit:    slices.Contains(top, actual),
		})
	}
	return results
}

func drawTime(o history.Observation) time.Time {
	if at, ok := o.At(time.UTC); ok {
		return at
	}
	return time.Time{}
}

// Summarize computes aggregate stats from backtest results.
func Summarize(results []Result) Summary {
	s := Summary{
		Total:    len(results),
		ByMethod: make(map[scoring.Method]int),
	}
	for _, r := range results {
		if r.Hit {
			s.Hits++
			s.ByMethod[r.Method]++
		}
		if r.TopHit {
			s.TopHits++
		}
	}
	if s.Total > 0 {
		s.HitRate = float64(s.Hits) / float64(s.Total)
		s.TopRate = float64(s.TopHits) / float64(s.Total)
	}
	return s
}

// #endregion backtest
