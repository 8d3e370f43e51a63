// Package textstat provides cancellable, selection-aware text statistics.
//
// Textstat counts editor-style document metrics: UTF-16 code unit lengths,
// grapheme clusters, words, lines, and cursor position, each computed for
// the whole text and for a selected range, honoring the document's line
// ending convention.
//
// Basic usage:
//
//	client, err := textstat.New(
//	    textstat.WithSQLite(".textstat/textstat.db"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Count synchronously
//	request := count.NewRequest(text, count.LineEndingLF, count.NewSelection(4, 9))
//	result, err := client.Counts.Count(ctx, request)
//
//	// Or run in the background with cancellation
//	op, err := client.Counts.Submit(ctx, request)
//	if err := op.Wait(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(op.Result().Words())
package textstat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/helixml/textstat/application/service"
	"github.com/helixml/textstat/domain/count"
	"github.com/helixml/textstat/infrastructure/persistence"
	"github.com/helixml/textstat/infrastructure/tracking"
	"github.com/helixml/textstat/internal/config"
	"github.com/helixml/textstat/internal/database"
)

// Client is the main entry point for the textstat library.
// The operation sweeper and history pruner start automatically on creation.
//
// Access resources via struct fields:
//
//	client.Counts.Count(ctx, request)
//	client.Counts.Submit(ctx, request)
//	client.History.Find(ctx, count.WithState(count.StateCompleted))
type Client struct {
	// Public resource fields (direct service access)
	Counts *service.CountService

	// History holds persisted records of settled operations. It is nil
	// when no database is configured.
	History count.RecordStore

	db     database.Database
	hasDB  bool
	pruner *service.HistoryPruner

	closers []io.Closer
	logger  *slog.Logger
	dataDir string
	closed  atomic.Bool
	mu      sync.Mutex
}

// New creates a new Client with the given options.
// The operation sweeper and history pruner are started automatically.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	// Set up logger
	logger := cfg.logger
	if logger == nil {
		logger = config.DefaultLogger()
	}

	// Set up data directory
	dataDir, err := config.PrepareDataDir(cfg.dataDir)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	client := &Client{
		closers: cfg.closers,
		logger:  logger,
		dataDir: dataDir,
	}

	// Open the history database when one is configured. Counting itself
	// needs no persistence; without a database the client keeps no history.
	if cfg.database != databaseUnset {
		dbURL, err := buildDatabaseURL(cfg)
		if err != nil {
			return nil, fmt.Errorf("build database url: %w", err)
		}

		db, err := database.NewDatabase(ctx, dbURL)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}

		if cfg.autoMigrate {
			if err := persistence.AutoMigrate(db); err != nil {
				errClose := db.Close()
				return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose)
			}
		} else if err := persistence.ValidateSchema(db); err != nil {
			errClose := db.Close()
			return nil, errors.Join(fmt.Errorf("validate schema: %w", err), errClose)
		}

		client.db = db
		client.hasDB = true
		client.History = persistence.NewRecordStore(db)
	}

	// Progress reporting: log at most once per interval per operation
	// during high-frequency updates.
	reporter := cfg.reporter
	if reporter == nil {
		cooldown := tracking.NewCooldown(tracking.NewLoggingReporter(logger), cfg.reporting.LogTimeInterval())
		client.closers = append(client.closers, cooldown)
		reporter = cooldown
	}

	counts := service.NewCountService(logger).
		WithReporter(reporter).
		WithRetention(cfg.operations.Retention()).
		WithSweepInterval(cfg.operations.SweepInterval())
	if cfg.concurrency > 0 {
		counts = counts.WithConcurrency(cfg.concurrency)
	}
	if client.History != nil && cfg.history.Enabled() {
		counts = counts.WithHistory(client.History)
	}
	client.Counts = counts

	client.pruner = service.NewHistoryPruner(cfg.history, client.History, logger)

	// Start the operation sweeper and the history pruner
	counts.Start(ctx)
	client.pruner.Start(ctx)

	return client, nil
}

// Close stops background work and releases all resources.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return service.ErrClientClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Stop the history pruner and the count service
	c.pruner.Stop()
	c.Counts.Stop()

	// Close registered resources (e.g. reporter cooldowns) so pending
	// progress updates are flushed.
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			c.logger.Error("failed to close resource", slog.Any("error", err))
		}
	}

	if c.hasDB {
		if err := c.db.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}

	c.logger.Info("textstat client closed")
	return nil
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// DataDir returns the prepared data directory.
func (c *Client) DataDir() string {
	return c.dataDir
}

// buildDatabaseURL assembles the database URL from config.
func buildDatabaseURL(cfg *clientConfig) (string, error) {
	switch cfg.database {
	case databaseSQLite:
		return "sqlite:///" + cfg.dbPath, nil
	case databasePostgres:
		return cfg.dbDSN, nil
	default:
		return "", fmt.Errorf("no database configured")
	}
}
