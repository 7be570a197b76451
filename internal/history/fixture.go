package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// #region fixture-loader

// LoadJSON reads a JSON array of observations (the raw-data dump format)
// and validates every entry.
func LoadJSON(path string) ([]Observation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read history %s: %w", path, err)
	}
	var obs []Observation
	if err := json.Unmarshal(data, &obs); err != nil {
		return nil, fmt.Errorf("parse history %s: %w", path, err)
	}
	if err := ValidateAll(obs); err != nil {
		return nil, fmt.Errorf("history %s: %w", path, err)
	}
	return obs, nil
}

// #endregion fixture-loader

// #region fixture-writer

// WriteJSON writes obs as an indented JSON array. The file is written to a
// temporary sibling first and renamed into place, so watchers never see a
// partial file.
func WriteJSON(path string, obs []Observation) error {
	if obs == nil {
		obs = []Observation{}
	}
	data, err := json.MarshalIndent(obs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".history-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename history: %w", err)
	}
	return nil
}

// #endregion fixture-writer
