package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region log-prediction
// LogPrediction writes a served prediction to the prediction_log table.
func LogPrediction(db *sql.DB, entry PredictionEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO prediction_log (run_id, snapshot_id, sequence_len, top_digit, top_score, method, trigger_type, scores_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.SnapshotID,
		entry.SequenceLen,
		entry.TopDigit,
		entry.TopScore,
		entry.Method,
		entry.TriggerType,
		nullIfEmpty(entry.ScoresJSON),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log prediction: %w", err)
	}
	return nil
}
// #endregion log-prediction

// #region list-predictions
// ListPredictions returns the most recent entries, newest first.
func ListPredictions(db *sql.DB, limit int) ([]PredictionEntry, error) {
	rows, err := db.Query(
		`SELECT id, run_id, snapshot_id, sequence_len, top_digit, top_score, method, trigger_type, scores_json, created_at
		 FROM prediction_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	defer rows.Close()

	var entries []PredictionEntry
	for rows.Next() {
		var e PredictionEntry
		var scores sql.NullString
		var createdStr string
		if err := rows.Scan(&e.ID, &e.RunID, &e.SnapshotID, &e.SequenceLen, &e.TopDigit,
			&e.TopScore, &e.Method, &e.TriggerType, &scores, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if scores.Valid {
			e.ScoresJSON = scores.String
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetPrediction returns the entry logged under runID.
func GetPrediction(db *sql.DB, runID string) (PredictionEntry, error) {
	var e PredictionEntry
	var scores sql.NullString
	var createdStr string
	err := db.QueryRow(
		`SELECT id, run_id, snapshot_id, sequence_len, top_digit, top_score, method, trigger_type, scores_json, created_at
		 FROM prediction_log WHERE run_id = ?`, runID,
	).Scan(&e.ID, &e.RunID, &e.SnapshotID, &e.SequenceLen, &e.TopDigit,
		&e.TopScore, &e.Method, &e.TriggerType, &scores, &createdStr)
	if err == sql.ErrNoRows {
		return PredictionEntry{}, fmt.Errorf("prediction %s not found", runID)
	}
	if err != nil {
		return PredictionEntry{}, fmt.Errorf("get prediction: %w", err)
	}
	if scores.Valid {
		e.ScoresJSON = scores.String
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return e, nil
}
// #endregion list-predictions

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
// #endregion helpers
