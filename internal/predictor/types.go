package predictor

import (
	"database/sql"
	"time"

	"github.com/danielpatrickdp/fatafat-forecast/internal/analysis"
	"github.com/danielpatrickdp/fatafat-forecast/internal/history"
	"github.com/danielpatrickdp/fatafat-forecast/internal/schedule"
	"github.com/danielpatrickdp/fatafat-forecast/internal/scoring"
	"github.com/danielpatrickdp/fatafat-forecast/internal/transition"
)

// #region config

// DefaultTimezone is where draws are announced.
const DefaultTimezone = "Asia/Kolkata"

// Config bundles the settings of every stage a prediction passes through.
type Config struct {
	Location *time.Location // nil means DefaultTimezone
	Cache    analysis.CacheConfig
	Scoring  scoring.Config
	Schedule schedule.Config
}

// DefaultConfig returns production settings. The location falls back to
// UTC when the tz database lacks DefaultTimezone.
func DefaultConfig() Config {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	return Config{
		Location: loc,
		Cache:    analysis.DefaultCacheConfig(),
		Scoring:  scoring.DefaultConfig(),
		Schedule: schedule.DefaultConfig(),
	}
}

// #endregion config

// #region store

// Store persists ingested observations. Its database also receives the
// prediction log.
type Store interface {
	Append(obs ...history.Observation) error
	ReplaceAll(obs []history.Observation) error
	DB() *sql.DB
}

// #endregion store

// #region results

// SequenceAnalysis shows the current contexts and their most common followers.
type SequenceAnalysis struct {
	LastNumber      *int                       `json:"last_number"`
	LastPair        []int                      `json:"last_pair"`
	LastTriple      []int                      `json:"last_triple"`
	SingleFollowers []transition.FollowerCount `json:"single_followers"`
	PairFollowers   []transition.FollowerCount `json:"pair_followers"`
	TripleFollowers []transition.FollowerCount `json:"triple_followers"`
}

// NumberWise is the full distribution plus the context behind it.
type NumberWise struct {
	scoring.Distribution
	SequenceAnalysis SequenceAnalysis `json:"sequence_analysis"`
}

// Prediction is the single-digit forecast for the current or next round.
type Prediction struct {
	PredictedNumber int                `json:"predicted_number"`
	Confidence      float64            `json:"confidence"`
	Method          scoring.Method     `json:"method"`
	Status          string             `json:"status"`
	TargetTime      string             `json:"target_time"`
	DrawNumber      int                `json:"draw_number"`
	TimeToNext      string             `json:"time_to_next,omitempty"`
	RoundInfo       schedule.RoundInfo `json:"round_info"`
	NumberWise      NumberWise         `json:"number_wise_predictions"`
	RunID           string             `json:"run_id"`
	SnapshotID      string             `json:"snapshot_id"`
}

// Statistics summarizes the sequence.
type Statistics struct {
	TotalDrawsAnalyzed    int         `json:"total_draws_analyzed"`
	MostFrequentNumber    int         `json:"most_frequent_number"`
	LeastFrequentNumber   int         `json:"least_frequent_number"`
	RecentTrend           []int       `json:"recent_trend"`
	FrequencyDistribution map[int]int `json:"frequency_distribution"`
	Hot                   []int       `json:"hot_numbers"`
	Cold                  []int       `json:"cold_numbers"`
}

// #endregion results
