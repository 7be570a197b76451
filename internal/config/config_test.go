package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"FATAFAT_DB", "FATAFAT_HTTP_ADDR", "FATAFAT_GRPC_ADDR",
	"FATAFAT_HISTORY_FILE", "FATAFAT_TZ", "FATAFAT_LOG_LEVEL",
}

// clearEnv blanks every override so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fatafat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// #region load-tests

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "Asia/Kolkata", cfg.Timezone)
	require.Equal(t, 10, cfg.Analysis.RecentLen)
	require.Len(t, cfg.Schedule.ResultTimes, 8)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  http_addr: "127.0.0.1:9000"
  grpc_addr: ""
storage:
  db_path: /var/lib/fatafat/history.db
  history_file: /var/lib/fatafat/history.json
logging:
  level: debug
  json: true
analysis:
  hot_cold_size: 4
schedule:
  result_times: ["11:00", "17:00"]
  live_window: 10m
watch:
  enabled: true
  debounce: 2s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:9000", cfg.Server.HTTPAddr)
	require.Empty(t, cfg.Server.GRPCAddr)
	require.Equal(t, "/var/lib/fatafat/history.db", cfg.Storage.DBPath)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.True(t, cfg.Logging.JSON)
	require.Equal(t, 4, cfg.Analysis.HotColdSize)
	require.Equal(t, 10, cfg.Analysis.RecentLen, "unset keys keep defaults")
	require.Equal(t, []string{"11:00", "17:00"}, cfg.Schedule.ResultTimes)
	require.Equal(t, 10*time.Minute, cfg.Schedule.LiveWindow)
	require.Equal(t, 2*time.Second, cfg.Watcher().Debounce)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "storage:\n  db_path: from-file.db\n")
	t.Setenv("FATAFAT_DB", "from-env.db")
	t.Setenv("FATAFAT_TZ", "UTC")
	t.Setenv("FATAFAT_LOG_LEVEL", "WARN")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env.db", cfg.Storage.DBPath)
	require.Equal(t, "UTC", cfg.Timezone)
	require.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "server: [\n"},
		{"bad level", "logging:\n  level: loud\n"},
		{"bad addr", "server:\n  http_addr: nope\n"},
		{"bad timezone", "timezone: Mars/Olympus\n"},
		{"bad schedule", "schedule:\n  result_times: [\"25:00\"]\n"},
		{"hot cold too large", "analysis:\n  hot_cold_size: 11\n"},
		{"watch without file", "watch:\n  enabled: true\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			require.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate_WrapsSentinel(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "verbose"
	require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

// #endregion load-tests

// #region derived-tests

func TestPredictorConfig(t *testing.T) {
	cfg := Default()
	cfg.Timezone = "UTC"
	cfg.Analysis.RecentLen = 6

	pc, err := cfg.PredictorConfig()
	require.NoError(t, err)
	require.Equal(t, time.UTC, pc.Location)
	require.Equal(t, 6, pc.Cache.Frequency.RecentLen)
	require.Equal(t, cfg.Schedule, pc.Schedule)
	require.Equal(t, 35.0, pc.Scoring.TransitionCap)
}

func TestLocation_Unknown(t *testing.T) {
	cfg := Default()
	cfg.Timezone = "Nowhere/Special"
	_, err := cfg.Location()
	require.Error(t, err)
}

// #endregion derived-tests
