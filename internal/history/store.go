package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS observations (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	draw_date   TEXT NOT NULL,
	slot_time   TEXT NOT NULL,
	slot_index  INTEGER NOT NULL,
	digit       INTEGER NOT NULL CHECK (digit BETWEEN 0 AND 9),
	day_label   TEXT NOT NULL,
	recorded_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS prediction_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	snapshot_id   TEXT NOT NULL,
	sequence_len  INTEGER NOT NULL,
	top_digit     INTEGER NOT NULL,
	top_score     REAL NOT NULL,
	method        TEXT NOT NULL,
	trigger_type  TEXT NOT NULL,
	scores_json   TEXT,
	created_at    TEXT NOT NULL
);
`
// #endregion schema

// #region store-struct
// Store persists observations in SQLite. Row id order is the sequence order.
type Store struct {
	db *sql.DB
}
// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}
// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}
// #endregion db-accessor

// #region append
// Append validates and inserts observations in one transaction.
func (s *Store) Append(obs ...Observation) error {
	if err := ValidateAll(obs); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := insertAll(tx, obs); err != nil {
		return err
	}
	return tx.Commit()
}
// #endregion append

// #region replace-all
// ReplaceAll atomically swaps the stored sequence for obs.
func (s *Store) ReplaceAll(obs []Observation) error {
	if err := ValidateAll(obs); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM observations`); err != nil {
		return fmt.Errorf("clear observations: %w", err)
	}
	if err := insertAll(tx, obs); err != nil {
		return err
	}
	return tx.Commit()
}
// #endregion replace-all

// #region load
// Load returns every stored observation in insertion order. An empty store
// yields ErrNoHistory.
func (s *Store) Load() ([]Observation, error) {
	rows, err := s.db.Query(
		`SELECT draw_date, slot_time, slot_index, digit, day_label
		 FROM observations ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("load observations: %w", err)
	}
	defer rows.Close()

	var obs []Observation
	for rows.Next() {
		var o Observation
		if err := rows.Scan(&o.Date, &o.SlotTime, &o.SlotIndex, &o.Digit, &o.DayLabel); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		obs = append(obs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return nil, ErrNoHistory
	}
	return obs, nil
}
// #endregion load

// #region count
// Count returns the number of stored observations.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM observations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count observations: %w", err)
	}
	return n, nil
}
// #endregion count

// #region helpers
func insertAll(tx *sql.Tx, obs []Observation) error {
	stmt, err := tx.Prepare(
		`INSERT INTO observations (draw_date, slot_time, slot_index, digit, day_label, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, o := range obs {
		if _, err := stmt.Exec(o.Date, o.SlotTime, o.SlotIndex, o.Digit, o.DayLabel, now); err != nil {
			return fmt.Errorf("insert observation %s: %w", o, err)
		}
	}
	return nil
}
// #endregion helpers
