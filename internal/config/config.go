package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/fatafat-forecast/internal/analysis"
	"github.com/danielpatrickdp/fatafat-forecast/internal/frequency"
	"github.com/danielpatrickdp/fatafat-forecast/internal/predictor"
	"github.com/danielpatrickdp/fatafat-forecast/internal/schedule"
	"github.com/danielpatrickdp/fatafat-forecast/internal/scoring"
	"github.com/danielpatrickdp/fatafat-forecast/internal/watch"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

var configValidate = validator.New()

// #region defaults

// Default returns the configuration used when no file is given.
func Default() Config {
	freq := frequency.DefaultConfig()
	return Config{
		Server: ServerConfig{
			HTTPAddr: ":8080",
			GRPCAddr: "localhost:50051",
		},
		Storage: StorageConfig{
			DBPath: "fatafat.db",
		},
		Timezone: predictor.DefaultTimezone,
		Logging: LoggingConfig{
			Level: "info",
		},
		Sample: SampleConfig{
			Days: 30,
			Seed: 42,
		},
		Analysis: AnalysisConfig{
			RecentLen:   freq.RecentLen,
			HotColdSize: freq.HotColdSize,
		},
		Schedule: schedule.DefaultConfig(),
		Watch: WatchConfig{
			Debounce: watch.DefaultConfig().Debounce,
		},
	}
}

// #endregion defaults

// #region load

// Load reads path over Default, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Storage.DBPath = envOr("FATAFAT_DB", c.Storage.DBPath)
	c.Server.HTTPAddr = envOr("FATAFAT_HTTP_ADDR", c.Server.HTTPAddr)
	c.Server.GRPCAddr = envOr("FATAFAT_GRPC_ADDR", c.Server.GRPCAddr)
	c.Storage.HistoryFile = envOr("FATAFAT_HISTORY_FILE", c.Storage.HistoryFile)
	c.Timezone = envOr("FATAFAT_TZ", c.Timezone)
	c.Logging.Level = strings.ToLower(envOr("FATAFAT_LOG_LEVEL", c.Logging.Level))
}

// Validate checks field constraints, the timezone and the schedule.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	if _, err := schedule.NewClock(c.Schedule); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Watch.Enabled && c.Storage.HistoryFile == "" {
		return fmt.Errorf("%w: watch.enabled needs storage.history_file", ErrInvalidConfig)
	}
	return nil
}

// #endregion load

// #region derived

// Location loads the configured timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// FrequencyConfig returns the analyzer windows.
func (c Config) FrequencyConfig() frequency.Config {
	return frequency.Config{
		RecentLen:   c.Analysis.RecentLen,
		HotColdSize: c.Analysis.HotColdSize,
	}
}

// PredictorConfig builds the predictor settings with production scoring
// weights.
func (c Config) PredictorConfig() (predictor.Config, error) {
	loc, err := c.Location()
	if err != nil {
		return predictor.Config{}, err
	}
	return predictor.Config{
		Location: loc,
		Cache:    analysis.CacheConfig{Frequency: c.FrequencyConfig()},
		Scoring:  scoring.DefaultConfig(),
		Schedule: c.Schedule,
	}, nil
}

// Watcher returns the watcher settings.
func (c Config) Watcher() watch.Config {
	wc := watch.DefaultConfig()
	if c.Watch.Debounce > 0 {
		wc.Debounce = c.Watch.Debounce
	}
	return wc
}

// #endregion derived

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
// #endregion helpers
