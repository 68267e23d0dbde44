// Package config provides configuration loading and validation for codeme.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/role"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/scoring"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/sentiment"
)

// Sentinel validation errors.
var (
	ErrInvalidSampleFiles = errors.New("sample files must be positive")
	ErrInvalidWorkers     = errors.New("workers must be positive")
	ErrInvalidParallelism = errors.New("batch parallelism must be positive")
	ErrInvalidTimezone    = errors.New("unknown timezone")
	ErrInvalidScanDepth   = errors.New("scan depth must not be negative")
	ErrInvalidLogFormat   = errors.New("log format must be text or json")
	ErrInvalidMultiplier  = errors.New("core multiplier must be positive")
	ErrInvalidPattern     = errors.New("invalid sentiment pattern")
)

// EnvPrefix prefixes every environment override, e.g. CODEME_ANALYSIS_WORKERS.
const EnvPrefix = "CODEME"

// Config holds all configuration for codeme.
type Config struct {
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Batch      BatchConfig      `mapstructure:"batch"`
	Thresholds ThresholdsConfig `mapstructure:"thresholds"`
	Sentiment  SentimentConfig  `mapstructure:"sentiment"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// AnalysisConfig holds single-repository analysis settings.
type AnalysisConfig struct {
	Timezone      string `mapstructure:"timezone"`
	SampleFiles   int    `mapstructure:"sample_files"`
	Workers       int    `mapstructure:"workers"`
	TopKeywords   int    `mapstructure:"top_keywords"`
	TopExtensions int    `mapstructure:"top_extensions"`
}

// BatchConfig holds multi-repository settings.
type BatchConfig struct {
	SkipDirs    []string `mapstructure:"skip_dirs"`
	Parallelism int      `mapstructure:"parallelism"`
	ScanDepth   int      `mapstructure:"scan_depth"`
}

// ThresholdsConfig holds label thresholds, radar saturation points and the
// core-project multiplier.
type ThresholdsConfig struct {
	scoring.Thresholds `mapstructure:",squash"`

	CoreMultiplier float64 `mapstructure:"core_multiplier"`
}

// SentimentConfig holds the case-insensitive category patterns matched
// against commit subjects.
type SentimentConfig struct {
	Positive  string `mapstructure:"positive"`
	Negative  string `mapstructure:"negative"`
	Stressful string `mapstructure:"stressful"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds tracing and metrics export settings.
type TelemetryConfig struct {
	OTLPEndpoint    string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders     string  `mapstructure:"otlp_headers"`
	MetricsTextfile string  `mapstructure:"metrics_textfile"`
	SampleRatio     float64 `mapstructure:"sample_ratio"`
	OTLPInsecure    bool    `mapstructure:"otlp_insecure"`
}

// LoadConfig loads configuration from file and environment variables. An
// empty configPath searches the default locations and tolerates a missing
// file; an explicit path must exist.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("config")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("$HOME/.codeme")
	}

	viperCfg.SetEnvPrefix(EnvPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Location resolves the analysis timezone.
func (c *Config) Location() (*time.Location, error) {
	return ParseLocation(c.Analysis.Timezone)
}

// Lexicon compiles the configured sentiment patterns.
func (c *Config) Lexicon() (*sentiment.Lexicon, error) {
	lex, err := sentiment.NewLexicon(c.Sentiment.Positive, c.Sentiment.Negative, c.Sentiment.Stressful)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	return lex, nil
}

// LogLevel parses the logging level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level

	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return slog.LevelInfo
	}

	return level
}

// LogJSON reports whether logs are emitted as JSON.
func (c *Config) LogJSON() bool {
	return strings.EqualFold(c.Logging.Format, FormatJSON)
}

// ParseLocation resolves an IANA timezone name. Empty and "Local" mean the
// process timezone.
func ParseLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, name)
	}

	return loc, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	// Analysis defaults.
	viperCfg.SetDefault("analysis.timezone", DefaultTimezone)
	viperCfg.SetDefault("analysis.sample_files", DefaultSampleFiles)
	viperCfg.SetDefault("analysis.workers", DefaultWorkers)
	viperCfg.SetDefault("analysis.top_keywords", DefaultTopKeywords)
	viperCfg.SetDefault("analysis.top_extensions", DefaultTopExtensions)

	// Batch defaults.
	viperCfg.SetDefault("batch.parallelism", DefaultParallelism)
	viperCfg.SetDefault("batch.scan_depth", DefaultScanDepth)
	viperCfg.SetDefault("batch.skip_dirs", DefaultSkipDirs())

	// Threshold defaults.
	th := scoring.DefaultThresholds()
	viperCfg.SetDefault("thresholds.midnight_fraction", th.MidnightFraction)
	viperCfg.SetDefault("thresholds.interweaving", th.Interweaving)
	viperCfg.SetDefault("thresholds.sole_maintenance", th.SoleMaintenance)
	viperCfg.SetDefault("thresholds.innovation", th.Innovation)
	viperCfg.SetDefault("thresholds.tech_breadth", th.TechBreadth)
	viperCfg.SetDefault("thresholds.refinement", th.Refinement)
	viperCfg.SetDefault("thresholds.longest_day_span", th.LongestDaySpan)
	viperCfg.SetDefault("thresholds.code_health", th.CodeHealth)
	viperCfg.SetDefault("thresholds.active_commits", th.ActiveCommits)
	viperCfg.SetDefault("thresholds.active_lines", th.ActiveLines)
	viperCfg.SetDefault("thresholds.core_multiplier", role.DefaultCoreMultiplier)

	// Sentiment defaults.
	viperCfg.SetDefault("sentiment.positive", sentiment.DefaultPositivePattern)
	viperCfg.SetDefault("sentiment.negative", sentiment.DefaultNegativePattern)
	viperCfg.SetDefault("sentiment.stressful", sentiment.DefaultStressfulPattern)

	// Logging defaults.
	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", FormatText)

	// Telemetry defaults.
	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.metrics_textfile", "")
	viperCfg.SetDefault("telemetry.sample_ratio", 1.0)
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if config.Analysis.SampleFiles <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleFiles, config.Analysis.SampleFiles)
	}

	if config.Analysis.Workers <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, config.Analysis.Workers)
	}

	if config.Batch.Parallelism <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidParallelism, config.Batch.Parallelism)
	}

	if config.Batch.ScanDepth < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidScanDepth, config.Batch.ScanDepth)
	}

	if config.Thresholds.CoreMultiplier <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidMultiplier, config.Thresholds.CoreMultiplier)
	}

	switch strings.ToLower(config.Logging.Format) {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if _, err := config.Location(); err != nil {
		return err
	}

	if _, err := config.Lexicon(); err != nil {
		return err
	}

	return nil
}
