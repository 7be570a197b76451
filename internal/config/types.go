package config

import (
	"time"

	"github.com/danielpatrickdp/fatafat-forecast/internal/schedule"
)

// #region config

// Config is the full service configuration, read from YAML and then
// overridden from the environment.
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Storage  StorageConfig   `yaml:"storage"`
	Timezone string          `yaml:"timezone" validate:"required"`
	Logging  LoggingConfig   `yaml:"logging"`
	Sample   SampleConfig    `yaml:"sample"`
	Analysis AnalysisConfig  `yaml:"analysis"`
	Schedule schedule.Config `yaml:"schedule"`
	Watch    WatchConfig     `yaml:"watch"`
}

// ServerConfig holds listen addresses. An empty gRPC address disables the
// gRPC server.
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr" validate:"required,hostname_port"`
	GRPCAddr string `yaml:"grpc_addr" validate:"omitempty,hostname_port"`
}

// StorageConfig locates the SQLite database and the optional JSON history
// file.
type StorageConfig struct {
	DBPath      string `yaml:"db_path" validate:"required"`
	HistoryFile string `yaml:"history_file"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `yaml:"json"`
}

// SampleConfig controls seeding of an empty store. Days of 0 disables it.
type SampleConfig struct {
	Days int    `yaml:"days" validate:"gte=0,lte=3650"`
	Seed uint64 `yaml:"seed"`
}

// AnalysisConfig sizes the analyzer windows.
type AnalysisConfig struct {
	RecentLen   int `yaml:"recent_len" validate:"gte=1"`
	HotColdSize int `yaml:"hot_cold_size" validate:"gte=1,lte=10"`
}

// WatchConfig enables reloading of Storage.HistoryFile on change.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// #endregion config
