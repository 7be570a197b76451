package logging

import "time"

// #region prediction-entry
// PredictionEntry is a single row in the prediction_log table.
type PredictionEntry struct {
	ID          int64
	RunID       string
	SnapshotID  string
	SequenceLen int
	TopDigit    int
	TopScore    float64
	Method      string
	TriggerType string // "api" | "rpc" | "cli"
	ScoresJSON  string
	CreatedAt   time.Time
}
// #endregion prediction-entry

// #region prediction-record
// PredictionRecord is serialized into prediction_log.scores_json so a served
// prediction can be re-derived offline.
type PredictionRecord struct {
	Hour     int         `json:"hour"`
	Timezone string      `json:"timezone"`
	Scores   [10]float64 `json:"scores"`
	Ranked   []int       `json:"ranked"`
	Hot      []int       `json:"hot"`
	Cold     []int       `json:"cold"`
	Recent   []int       `json:"recent"`
}
// #endregion prediction-record
