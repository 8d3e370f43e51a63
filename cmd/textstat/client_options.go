package main

import (
	"strings"

	"github.com/helixml/textstat"
	"github.com/helixml/textstat/internal/config"
)

// clientOptions returns the textstat.Option slice derived from the shared
// parts of AppConfig: storage, data directory, concurrency, and the
// operation-registry, history, and reporting sections. Callers append
// entrypoint-specific options (logger, reporter) before passing the full
// slice to textstat.New.
func clientOptions(cfg config.AppConfig) []textstat.Option {
	opts := []textstat.Option{
		textstat.WithDataDir(cfg.DataDir()),
		textstat.WithAutoMigrate(cfg.DBAutoMigrate()),
		textstat.WithOperationsConfig(cfg.Operations()),
		textstat.WithHistoryConfig(cfg.History()),
		textstat.WithReportingConfig(cfg.Reporting()),
	}

	if cfg.Concurrency() > 0 {
		opts = append(opts, textstat.WithConcurrency(cfg.Concurrency()))
	}

	opts = append(opts, storageOptions(cfg)...)

	return opts
}

// storageOptions returns the textstat.Option for the configured database
// backend.
func storageOptions(cfg config.AppConfig) []textstat.Option {
	dbURL := cfg.DBURL()

	if dbURL != "" && !isSQLite(dbURL) {
		return []textstat.Option{textstat.WithPostgres(dbURL)}
	}

	dbPath := cfg.DataDir() + "/textstat.db"
	if dbURL != "" && isSQLite(dbURL) {
		dbPath = strings.TrimPrefix(dbURL, "sqlite:///")
		if dbPath == dbURL {
			dbPath = strings.TrimPrefix(dbURL, "sqlite:")
		}
	}

	return []textstat.Option{textstat.WithSQLite(dbPath)}
}

// isSQLite checks if the database URL is for SQLite.
func isSQLite(url string) bool {
	return strings.HasPrefix(url, "sqlite:")
}
