package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/ppc-cli/internal/analyzer"
	"github.com/sells-group/ppc-cli/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Settings SettingsConfig `yaml:"settings" mapstructure:"settings"`
	Export   ExportConfig   `yaml:"export" mapstructure:"export"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// AnalysisConfig configures the analysis pipeline.
type AnalysisConfig struct {
	Enhanced   bool `yaml:"enhanced" mapstructure:"enhanced"`
	RecentDays int  `yaml:"recent_days" mapstructure:"recent_days"`
	// Settings are the thresholds used when no store has saved any.
	Settings model.Settings `yaml:"settings" mapstructure:"settings"`
}

// RecentWindow returns the isRecent window as a duration.
func (a AnalysisConfig) RecentWindow() time.Duration {
	return time.Duration(a.RecentDays) * 24 * time.Hour
}

// SettingsConfig selects the settings store.
type SettingsConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"` // "yaml" or "sqlite"
	Path   string `yaml:"path" mapstructure:"path"`
}

// ExportConfig configures CSV exports.
type ExportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	MaxUploadMB int      `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
	RateLimit   float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst   int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// MaxUploadBytes returns the upload limit in bytes.
func (s ServerConfig) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) << 20
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PPC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	d := model.DefaultSettings()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("analysis.enhanced", false)
	v.SetDefault("analysis.recent_days", 7)
	v.SetDefault("analysis.settings.target_acos_index", d.TargetACOSIndex)
	v.SetDefault("analysis.settings.exact_negative_lv", d.ExactNegativeLv)
	v.SetDefault("analysis.settings.phrase_negative_lv", d.PhraseNegativeLv)
	v.SetDefault("analysis.settings.reliability", d.Reliability)
	v.SetDefault("analysis.settings.increase_bid_lv", d.IncreaseBidLv)
	v.SetDefault("analysis.settings.decrease_bid_lv", d.DecreaseBidLv)
	v.SetDefault("settings.driver", "yaml")
	v.SetDefault("settings.path", "ppc-settings.yaml")
	v.SetDefault("export.dir", ".")
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_upload_mb", 20)
	v.SetDefault("server.rate_limit", 5.0)
	v.SetDefault("server.rate_burst", 10)
	v.SetDefault("server.cors_origins", []string{"*"})

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. mode is one of "analyze",
// "settings", "batch" or "serve"; the last two add their own checks.
func (c *Config) Validate(mode string) error {
	var errs []string

	if c.Analysis.RecentDays <= 0 {
		errs = append(errs, "analysis.recent_days must be > 0")
	}
	if err := analyzer.ValidateSettings(c.Analysis.Settings); err != nil {
		errs = append(errs, "analysis.settings: "+err.Error())
	}
	switch c.Settings.Driver {
	case "yaml", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("settings.driver must be yaml or sqlite, got %q", c.Settings.Driver))
	}
	if c.Settings.Path == "" {
		errs = append(errs, "settings.path is required")
	}

	switch mode {
	case "serve":
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
		}
		if c.Server.MaxUploadMB <= 0 {
			errs = append(errs, "server.max_upload_mb must be > 0")
		}
		if c.Server.RateLimit <= 0 || c.Server.RateBurst <= 0 {
			errs = append(errs, "server.rate_limit and server.rate_burst must be > 0")
		}
	case "batch":
		if c.Batch.Concurrency <= 0 {
			errs = append(errs, "batch.concurrency must be > 0")
		}
	case "analyze", "settings":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
