package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/fatafat-forecast/internal/history"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a backtest fixture.
type Fixture struct {
	Description  string                `json:"description"`
	Config       FixtureConfig         `json:"config"`
	Observations []history.Observation `json:"observations"`
	Expected     FixtureExpected       `json:"expected"`
}

// FixtureConfig overrides DefaultConfig. Zero fields keep the default.
type FixtureConfig struct {
	Warmup      int     `json:"warmup"`
	TopN        int     `json:"top_n"`
	RecentLen   int     `json:"recent_len"`
	HotColdSize int     `json:"hot_cold_size"`
	HotBonus    float64 `json:"hot_bonus"`
	LuckyDigits []int   `json:"lucky_digits"`
}

// FixtureExpected pins the hit counts a fixture must reproduce.
type FixtureExpected struct {
	Total   int `json:"total"`
	Hits    int `json:"hits"`
	TopHits int `json:"top_hits"`
}

// #endregion fixture-types

// #region fixture-load

// LoadFixture reads and validates a backtest fixture.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if err := history.ValidateAll(f.Observations); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return &f, nil
}

// #endregion fixture-load

// #region fixture-convert

// ToConfig applies the overrides to DefaultConfig.
func (fc FixtureConfig) ToConfig() Config {
	c := DefaultConfig()
	if fc.Warmup > 0 {
		c.Warmup = fc.Warmup
	}
	if fc.TopN > 0 {
		c.TopN = fc.TopN
	}
	if fc.RecentLen > 0 {
		c.Frequency.RecentLen = fc.RecentLen
	}
	if fc.HotColdSize > 0 {
		c.Frequency.HotColdSize = fc.HotColdSize
	}
	if fc.HotBonus > 0 {
		c.Scoring.HotBonus = fc.HotBonus
	}
	if fc.LuckyDigits != nil {
		c.Scoring.LuckyDigits = fc.LuckyDigits
	}
	return c
}

// Check compares a summary with the pinned counts.
func (e FixtureExpected) Check(s Summary) error {
	if s.Total != e.Total || s.Hits != e.Hits || s.TopHits != e.TopHits {
		return fmt.Errorf("backtest drift: got total=%d hits=%d top=%d, want total=%d hits=%d top=%d",
			s.Total, s.Hits, s.TopHits, e.Total, e.Hits, e.TopHits)
	}
	return nil
}

// #endregion fixture-convert
