// Package config loads application configuration and initializes logging.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Enrich EnrichConfig `yaml:"enrich" mapstructure:"enrich"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// EnrichConfig configures the enrichment pipeline.
type EnrichConfig struct {
	OutputDir          string `yaml:"output_dir" mapstructure:"output_dir"`
	ChunkSize          int    `yaml:"chunk_size" mapstructure:"chunk_size"`
	TagRulesPath       string `yaml:"tag_rules_path" mapstructure:"tag_rules_path"`
	MinDescriptionLen  int    `yaml:"min_description_len" mapstructure:"min_description_len"`
	SummaryMaxLen      int    `yaml:"summary_max_len" mapstructure:"summary_max_len"`
	DescriptionMaxLen  int    `yaml:"description_max_len" mapstructure:"description_max_len"`
	OpenLateHour       int    `yaml:"open_late_hour" mapstructure:"open_late_hour"`
	MaxConcurrentFiles int    `yaml:"max_concurrent_files" mapstructure:"max_concurrent_files"`
}

// ServerConfig configures the HTTP job server.
type ServerConfig struct {
	Port            int     `yaml:"port" mapstructure:"port"`
	SubmitRateLimit float64 `yaml:"submit_rate_limit" mapstructure:"submit_rate_limit"`
	SubmitBurst     int     `yaml:"submit_burst" mapstructure:"submit_burst"`
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
	v.SetEnvPrefix("ENRICH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("enrich.output_dir", ".")
	v.SetDefault("enrich.chunk_size", 100)
	v.SetDefault("enrich.min_description_len", 50)
	v.SetDefault("enrich.summary_max_len", 150)
	v.SetDefault("enrich.description_max_len", 400)
	v.SetDefault("enrich.open_late_hour", 21)
	v.SetDefault("enrich.max_concurrent_files", 4)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.submit_rate_limit", 2.0)
	v.SetDefault("server.submit_burst", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrapf(err, "config: invalid log level %q", cfg.Level)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
