package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/ppc-cli/internal/model"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Analysis.Enhanced)
	assert.Equal(t, 7, cfg.Analysis.RecentDays)
	assert.Equal(t, model.DefaultSettings(), cfg.Analysis.Settings)
	assert.Equal(t, "yaml", cfg.Settings.Driver)
	assert.Equal(t, "ppc-settings.yaml", cfg.Settings.Path)
	assert.Equal(t, ".", cfg.Export.Dir)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 20, cfg.Server.MaxUploadMB)
	assert.InDelta(t, 5.0, cfg.Server.RateLimit, 0.001)
	assert.Equal(t, 10, cfg.Server.RateBurst)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
analysis:
  enhanced: true
  settings:
    target_acos_index: 0.25
settings:
  driver: sqlite
  path: ppc.db
log:
  level: debug
  format: console
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Analysis.Enhanced)
	assert.InDelta(t, 0.25, cfg.Analysis.Settings.TargetACOSIndex, 0.0001)
	// Defaults still apply for unset values
	assert.InDelta(t, 10.0, cfg.Analysis.Settings.PhraseNegativeLv, 0.0001)
	assert.Equal(t, "sqlite", cfg.Settings.Driver)
	assert.Equal(t, "ppc.db", cfg.Settings.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
settings:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("PPC_SETTINGS_DRIVER", "yaml")
	t.Setenv("PPC_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.Settings.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("PPC_SERVER_PORT", "3000")
	t.Setenv("PPC_ANALYSIS_SETTINGS_RELIABILITY", "0.5")
	t.Setenv("PPC_BATCH_CONCURRENCY", "2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.InDelta(t, 0.5, cfg.Analysis.Settings.Reliability, 0.0001)
	assert.Equal(t, 2, cfg.Batch.Concurrency)
}

func TestLoadBadYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [oops"), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, 7*24*time.Hour, AnalysisConfig{RecentDays: 7}.RecentWindow())
	assert.Equal(t, int64(2<<20), ServerConfig{MaxUploadMB: 2}.MaxUploadBytes())
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Analysis.RecentDays = 7
	cfg.Analysis.Settings = model.DefaultSettings()
	cfg.Settings.Driver = "yaml"
	cfg.Settings.Path = "ppc-settings.yaml"
	cfg.Batch.Concurrency = 4
	cfg.Server.Port = 8080
	cfg.Server.MaxUploadMB = 20
	cfg.Server.RateLimit = 5
	cfg.Server.RateBurst = 10
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	for _, mode := range []string{"analyze", "settings", "batch", "serve"} {
		assert.NoError(t, validDefaults().Validate(mode), mode)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mode   string
		mutate func(*Config)
		want   string
	}{
		{"zero target", "analyze", func(c *Config) { c.Analysis.Settings.TargetACOSIndex = 0 }, "target_acos_index"},
		{"target above one", "analyze", func(c *Config) { c.Analysis.Settings.TargetACOSIndex = 1.5 }, "target_acos_index"},
		{"negative reliability", "analyze", func(c *Config) { c.Analysis.Settings.Reliability = -1 }, "reliability must be > 0"},
		{"zero decrease", "settings", func(c *Config) { c.Analysis.Settings.DecreaseBidLv = 0 }, "decrease_bid_lv must be > 0"},
		{"recent days", "analyze", func(c *Config) { c.Analysis.RecentDays = 0 }, "recent_days"},
		{"unknown driver", "analyze", func(c *Config) { c.Settings.Driver = "redis" }, `got "redis"`},
		{"empty path", "analyze", func(c *Config) { c.Settings.Path = "" }, "settings.path is required"},
		{"port zero", "serve", func(c *Config) { c.Server.Port = 0 }, "server.port must be 1-65535"},
		{"port too high", "serve", func(c *Config) { c.Server.Port = 70000 }, "server.port must be 1-65535"},
		{"upload size", "serve", func(c *Config) { c.Server.MaxUploadMB = 0 }, "max_upload_mb"},
		{"rate", "serve", func(c *Config) { c.Server.RateBurst = 0 }, "rate_burst"},
		{"concurrency", "batch", func(c *Config) { c.Batch.Concurrency = 0 }, "batch.concurrency"},
		{"unknown mode", "unknown", func(*Config) {}, "unknown mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			tt.mutate(cfg)
			err := cfg.Validate(tt.mode)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ServerChecksOnlyInServeMode(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0
	cfg.Batch.Concurrency = 0
	assert.NoError(t, cfg.Validate("analyze"))
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validDefaults()
	cfg.Analysis.Settings.ExactNegativeLv = 0
	cfg.Analysis.Settings.PhraseNegativeLv = 0
	err := cfg.Validate("analyze")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exact_negative_lv must be > 0; phrase_negative_lv must be > 0")
}
