// Package config provides application configuration.
package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
// Nested structs use underscore delimiter (e.g., HISTORY_RETENTION_SECONDS).
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path.
	// Env: DATA_DIR
	// Default: ~/.textstat
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: sqlite:///{data_dir}/textstat.db
	DBURL string `envconfig:"DB_URL"`

	// DBAutoMigrate controls whether the schema is migrated on startup.
	// When false the schema is only validated against the models.
	// Env: DB_AUTO_MIGRATE (default: true)
	DBAutoMigrate bool `envconfig:"DB_AUTO_MIGRATE" default:"true"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// APIKeys is a comma-separated list of valid API keys.
	// Env: API_KEYS
	APIKeys string `envconfig:"API_KEYS"`

	// Concurrency is how many counting operations may run at once.
	// Env: CONCURRENCY (default: 4)
	Concurrency int `envconfig:"CONCURRENCY" default:"4"`

	// Operations configures the in-memory operation registry.
	Operations OperationsEnv `envconfig:"OPERATIONS"`

	// History configures the database-backed operation archive.
	History HistoryEnv `envconfig:"HISTORY"`

	// Reporting configures progress reporting.
	Reporting ReportingEnv `envconfig:"REPORTING"`
}

// OperationsEnv holds environment configuration for the operation registry.
type OperationsEnv struct {
	// RetentionSeconds is how long settled operations stay listable.
	// Env: OPERATIONS_RETENTION_SECONDS (default: 3600)
	RetentionSeconds float64 `envconfig:"RETENTION_SECONDS" default:"3600"`

	// SweepIntervalSeconds is how often settled operations are retired.
	// Env: OPERATIONS_SWEEP_INTERVAL_SECONDS (default: 60)
	SweepIntervalSeconds float64 `envconfig:"SWEEP_INTERVAL_SECONDS" default:"60"`
}

// HistoryEnv holds environment configuration for the history archive.
type HistoryEnv struct {
	// Enabled controls whether settled operations are archived.
	// Env: HISTORY_ENABLED (default: true)
	Enabled bool `envconfig:"ENABLED" default:"true"`

	// RetentionSeconds is how long archived records are kept.
	// Env: HISTORY_RETENTION_SECONDS (default: 604800)
	RetentionSeconds float64 `envconfig:"RETENTION_SECONDS" default:"604800"`

	// SweepIntervalSeconds is how often expired records are pruned.
	// Env: HISTORY_SWEEP_INTERVAL_SECONDS (default: 3600)
	SweepIntervalSeconds float64 `envconfig:"SWEEP_INTERVAL_SECONDS" default:"3600"`
}

// ReportingEnv holds environment configuration for reporting.
type ReportingEnv struct {
	// LogTimeInterval is the logging interval in seconds.
	// Env: REPORTING_LOG_TIME_INTERVAL (default: 5)
	LogTimeInterval float64 `envconfig:"LOG_TIME_INTERVAL" default:"5"`
}

// LoadFromEnv loads configuration from environment variables without a prefix.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// LoadFromEnvWithPrefix loads configuration with a custom prefix.
// For example, prefix "TEXTSTAT" would require TEXTSTAT_DATA_DIR instead of DATA_DIR.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// Normalize trims surrounding whitespace from string values.
func (e EnvConfig) Normalize() EnvConfig {
	e.Host = strings.TrimSpace(e.Host)
	e.DataDir = strings.TrimSpace(e.DataDir)
	e.DBURL = strings.TrimSpace(e.DBURL)
	e.LogLevel = strings.TrimSpace(e.LogLevel)
	e.LogFormat = strings.TrimSpace(e.LogFormat)
	e.APIKeys = strings.TrimSpace(e.APIKeys)
	return e
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.Host != "" {
		cfg = applyOption(cfg, WithHost(e.Host))
	}
	if e.Port != 0 {
		cfg = applyOption(cfg, WithPort(e.Port))
	}
	if e.DataDir != "" {
		cfg = applyOption(cfg, WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		cfg = applyOption(cfg, WithDBURL(e.DBURL))
	}
	cfg = applyOption(cfg, WithDBAutoMigrate(e.DBAutoMigrate))
	if e.LogLevel != "" {
		cfg = applyOption(cfg, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = applyOption(cfg, WithLogFormat(parseLogFormat(e.LogFormat)))
	}
	if e.APIKeys != "" {
		cfg = applyOption(cfg, WithAPIKeys(ParseAPIKeys(e.APIKeys)))
	}
	if e.Concurrency > 0 {
		cfg = applyOption(cfg, WithConcurrency(e.Concurrency))
	}

	cfg = applyOption(cfg, WithOperationsConfig(e.Operations.ToOperationsConfig()))
	cfg = applyOption(cfg, WithHistoryConfig(e.History.ToHistoryConfig()))
	cfg = applyOption(cfg, WithReportingConfig(e.Reporting.ToReportingConfig()))

	return cfg
}

// applyOption applies an option to the config.
func applyOption(cfg AppConfig, opt AppConfigOption) AppConfig {
	opt(&cfg)
	return cfg
}

// ToOperationsConfig converts OperationsEnv to OperationsConfig.
func (o OperationsEnv) ToOperationsConfig() OperationsConfig {
	return NewOperationsConfig().
		WithRetentionSeconds(o.RetentionSeconds).
		WithSweepIntervalSeconds(o.SweepIntervalSeconds)
}

// ToHistoryConfig converts HistoryEnv to HistoryConfig.
func (h HistoryEnv) ToHistoryConfig() HistoryConfig {
	return NewHistoryConfig().
		WithEnabled(h.Enabled).
		WithRetentionSeconds(h.RetentionSeconds).
		WithSweepIntervalSeconds(h.SweepIntervalSeconds)
}

// ToReportingConfig converts ReportingEnv to ReportingConfig.
func (r ReportingEnv) ToReportingConfig() ReportingConfig {
	return NewReportingConfig().
		WithLogTimeInterval(time.Duration(r.LogTimeInterval * float64(time.Second)))
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
