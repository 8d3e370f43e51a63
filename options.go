package textstat

import (
	"io"
	"log/slog"

	"github.com/helixml/textstat/infrastructure/tracking"
	"github.com/helixml/textstat/internal/config"
)

// databaseType identifies the database.
type databaseType int

const (
	databaseUnset databaseType = iota
	databaseSQLite
	databasePostgres
)

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	database    databaseType
	dbPath      string
	dbDSN       string
	autoMigrate bool
	dataDir     string
	logger      *slog.Logger
	reporter    tracking.Reporter
	concurrency int
	operations  config.OperationsConfig
	history     config.HistoryConfig
	reporting   config.ReportingConfig
	closers     []io.Closer
}

// newClientConfig creates a clientConfig with defaults from internal/config.
// This ensures all defaults come from the single source of truth.
func newClientConfig() *clientConfig {
	return &clientConfig{
		autoMigrate: true,
		dataDir:     config.DefaultDataDir(),
		operations:  config.NewOperationsConfig(),
		history:     config.NewHistoryConfig(),
		reporting:   config.NewReportingConfig(),
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite configures SQLite as the history database.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.database = databaseSQLite
		c.dbPath = path
	}
}

// WithPostgres configures PostgreSQL as the history database.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.database = databasePostgres
		c.dbDSN = dsn
	}
}

// WithAutoMigrate controls whether the history schema is migrated on startup.
// Defaults to true. When disabled, the existing schema is validated instead.
func WithAutoMigrate(enabled bool) Option {
	return func(c *clientConfig) {
		c.autoMigrate = enabled
	}
}

// WithDataDir sets the data directory for database storage.
func WithDataDir(dir string) Option {
	return func(c *clientConfig) {
		c.dataDir = dir
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithConcurrency bounds how many operations count at the same time.
// Values <= 0 are ignored.
func WithConcurrency(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithReporter sets the progress reporter subscribed to every operation,
// replacing the default logging reporter.
func WithReporter(r tracking.Reporter) Option {
	return func(c *clientConfig) {
		c.reporter = r
	}
}

// WithOperationsConfig sets retention behavior for settled operations in the
// in-memory registry.
func WithOperationsConfig(cfg config.OperationsConfig) Option {
	return func(c *clientConfig) {
		c.operations = cfg
	}
}

// WithHistoryConfig controls archiving of settled operations and pruning of
// expired history records.
func WithHistoryConfig(cfg config.HistoryConfig) Option {
	return func(c *clientConfig) {
		c.history = cfg
	}
}

// WithReportingConfig sets progress reporting cooldown behavior.
func WithReportingConfig(cfg config.ReportingConfig) Option {
	return func(c *clientConfig) {
		c.reporting = cfg
	}
}

// WithCloser registers a resource to be closed when the Client shuts down.
func WithCloser(c io.Closer) Option {
	return func(cfg *clientConfig) {
		cfg.closers = append(cfg.closers, c)
	}
}
