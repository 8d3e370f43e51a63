// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultHost                   = "0.0.0.0"
	DefaultPort                   = 8080
	DefaultLogLevel               = "INFO"
	DefaultConcurrency            = 4
	DefaultOperationRetention     = 3600.0   // seconds
	DefaultOperationSweepInterval = 60.0     // seconds
	DefaultHistoryRetention       = 604800.0 // seconds, one week
	DefaultHistorySweepInterval   = 3600.0   // seconds
	DefaultReportingInterval      = 5 * time.Second
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// ReportingConfig configures progress reporting.
type ReportingConfig struct {
	logTimeInterval time.Duration
}

// NewReportingConfig creates a new ReportingConfig with defaults.
func NewReportingConfig() ReportingConfig {
	return ReportingConfig{
		logTimeInterval: DefaultReportingInterval,
	}
}

// LogTimeInterval returns the time interval for logging progress.
func (r ReportingConfig) LogTimeInterval() time.Duration {
	return r.logTimeInterval
}

// WithLogTimeInterval returns a new config with the specified interval.
func (r ReportingConfig) WithLogTimeInterval(d time.Duration) ReportingConfig {
	r.logTimeInterval = d
	return r
}

// OperationsConfig configures the in-memory operation registry.
type OperationsConfig struct {
	retentionSeconds     float64
	sweepIntervalSeconds float64
}

// NewOperationsConfig creates a new OperationsConfig with defaults.
func NewOperationsConfig() OperationsConfig {
	return OperationsConfig{
		retentionSeconds:     DefaultOperationRetention,
		sweepIntervalSeconds: DefaultOperationSweepInterval,
	}
}

// Retention returns how long settled operations stay listable.
func (o OperationsConfig) Retention() time.Duration {
	return time.Duration(o.retentionSeconds * float64(time.Second))
}

// SweepInterval returns how often settled operations are retired.
func (o OperationsConfig) SweepInterval() time.Duration {
	return time.Duration(o.sweepIntervalSeconds * float64(time.Second))
}

// WithRetentionSeconds returns a new config with the specified retention.
func (o OperationsConfig) WithRetentionSeconds(seconds float64) OperationsConfig {
	o.retentionSeconds = seconds
	return o
}

// WithSweepIntervalSeconds returns a new config with the specified sweep interval.
func (o OperationsConfig) WithSweepIntervalSeconds(seconds float64) OperationsConfig {
	o.sweepIntervalSeconds = seconds
	return o
}

// HistoryConfig configures the database-backed operation archive.
type HistoryConfig struct {
	enabled              bool
	retentionSeconds     float64
	sweepIntervalSeconds float64
}

// NewHistoryConfig creates a new HistoryConfig with defaults.
func NewHistoryConfig() HistoryConfig {
	return HistoryConfig{
		enabled:              true,
		retentionSeconds:     DefaultHistoryRetention,
		sweepIntervalSeconds: DefaultHistorySweepInterval,
	}
}

// Enabled returns whether settled operations are archived.
func (h HistoryConfig) Enabled() bool { return h.enabled }

// Retention returns how long archived records are kept.
func (h HistoryConfig) Retention() time.Duration {
	return time.Duration(h.retentionSeconds * float64(time.Second))
}

// SweepInterval returns how often expired records are pruned.
func (h HistoryConfig) SweepInterval() time.Duration {
	return time.Duration(h.sweepIntervalSeconds * float64(time.Second))
}

// WithEnabled returns a new config with the specified enabled state.
func (h HistoryConfig) WithEnabled(enabled bool) HistoryConfig {
	h.enabled = enabled
	return h
}

// WithRetentionSeconds returns a new config with the specified retention.
func (h HistoryConfig) WithRetentionSeconds(seconds float64) HistoryConfig {
	h.retentionSeconds = seconds
	return h
}

// WithSweepIntervalSeconds returns a new config with the specified sweep interval.
func (h HistoryConfig) WithSweepIntervalSeconds(seconds float64) HistoryConfig {
	h.sweepIntervalSeconds = seconds
	return h
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	host          string
	port          int
	dataDir       string
	dbURL         string
	dbAutoMigrate bool
	logLevel      string
	logFormat     LogFormat
	apiKeys       []string
	concurrency   int
	operations    OperationsConfig
	history       HistoryConfig
	reporting     ReportingConfig
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".textstat"
	}
	return filepath.Join(home, ".textstat")
}

// DefaultLogger returns the default slog logger for library consumers.
func DefaultLogger() *slog.Logger {
	return slog.Default()
}

// PrepareDataDir creates the data directory if it does not exist and returns it.
func PrepareDataDir(dataDir string) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dataDir, nil
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	dataDir := DefaultDataDir()
	return AppConfig{
		host:          DefaultHost,
		port:          DefaultPort,
		dataDir:       dataDir,
		dbURL:         "sqlite:///" + filepath.Join(dataDir, "textstat.db"),
		dbAutoMigrate: true,
		logLevel:      DefaultLogLevel,
		logFormat:     LogFormatPretty,
		apiKeys:       []string{},
		concurrency:   DefaultConcurrency,
		operations:    NewOperationsConfig(),
		history:       NewHistoryConfig(),
		reporting:     NewReportingConfig(),
	}
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// DBAutoMigrate returns whether the schema is migrated on startup. When
// false the schema is only validated.
func (c AppConfig) DBAutoMigrate() bool { return c.dbAutoMigrate }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// APIKeys returns the configured API keys.
func (c AppConfig) APIKeys() []string {
	keys := make([]string, len(c.apiKeys))
	copy(keys, c.apiKeys)
	return keys
}

// Concurrency returns how many counting operations may run at once.
func (c AppConfig) Concurrency() int { return c.concurrency }

// Operations returns the operation registry config.
func (c AppConfig) Operations() OperationsConfig { return c.operations }

// History returns the history archive config.
func (c AppConfig) History() HistoryConfig { return c.history }

// Reporting returns the reporting config.
func (c AppConfig) Reporting() ReportingConfig { return c.reporting }

// EnsureDataDir creates the data directory if it doesn't exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o755)
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDataDir sets the data directory.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) {
		c.dataDir = dir
		// Update default DB URL when data dir changes
		if c.dbURL == "" || strings.Contains(c.dbURL, "textstat.db") {
			c.dbURL = "sqlite:///" + filepath.Join(dir, "textstat.db")
		}
	}
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithDBAutoMigrate sets whether the schema is migrated on startup.
func WithDBAutoMigrate(migrate bool) AppConfigOption {
	return func(c *AppConfig) { c.dbAutoMigrate = migrate }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithAPIKeys sets the API keys.
func WithAPIKeys(keys []string) AppConfigOption {
	return func(c *AppConfig) {
		c.apiKeys = make([]string, len(keys))
		copy(c.apiKeys, keys)
	}
}

// WithConcurrency sets how many counting operations may run at once.
func WithConcurrency(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithOperationsConfig sets the operation registry config.
func WithOperationsConfig(o OperationsConfig) AppConfigOption {
	return func(c *AppConfig) { c.operations = o }
}

// WithHistoryConfig sets the history archive config.
func WithHistoryConfig(h HistoryConfig) AppConfigOption {
	return func(c *AppConfig) { c.history = h }
}

// WithReportingConfig sets the reporting config.
func WithReportingConfig(r ReportingConfig) AppConfigOption {
	return func(c *AppConfig) { c.reporting = r }
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Apply returns a new AppConfig with the given options applied.
// This copies all fields from the receiver and then applies the options,
// making it safe to use when adding new fields to AppConfig.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration.
// Sensitive values like API keys are masked or shown as counts.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("data_dir", c.dataDir),
		slog.String("log_level", c.logLevel),
		slog.String("db_url", c.maskedDBURL()),
		slog.Bool("db_auto_migrate", c.dbAutoMigrate),
		slog.Int("concurrency", c.concurrency),
		slog.Int("api_keys_count", len(c.apiKeys)),
		slog.Duration("operation_retention", c.operations.Retention()),
		slog.Bool("history_enabled", c.history.Enabled()),
		slog.Duration("history_retention", c.history.Retention()),
	}
}

func (c AppConfig) maskedDBURL() string {
	if c.dbURL == "" {
		return "(default)"
	}
	if len(c.dbURL) >= 7 && c.dbURL[:7] == "sqlite:" {
		return c.dbURL
	}
	return "postgres://***@***"
}

// ParseAPIKeys parses a comma-separated string of API keys.
func ParseAPIKeys(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}
