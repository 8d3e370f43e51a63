package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/helixml/textstat/domain/count"
	"github.com/helixml/textstat/internal/config"
)

// HistoryPruner removes expired records from the history store on a timer.
type HistoryPruner struct {
	history   count.RecordStore
	logger    *slog.Logger
	retention time.Duration
	interval  time.Duration
	enabled   bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewHistoryPruner creates a new HistoryPruner from config and dependencies.
func NewHistoryPruner(
	cfg config.HistoryConfig,
	history count.RecordStore,
	logger *slog.Logger,
) *HistoryPruner {
	return &HistoryPruner{
		history:   history,
		logger:    logger,
		retention: cfg.Retention(),
		interval:  cfg.SweepInterval(),
		enabled:   cfg.Enabled() && history != nil && cfg.Retention() > 0,
	}
}

// Start begins periodic pruning in a background goroutine.
// If disabled, this is a no-op.
func (p *HistoryPruner) Start(ctx context.Context) {
	if !p.enabled {
		p.logger.Info("history pruning disabled")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, p.cancel = context.WithCancel(ctx)
	p.wg.Go(func() {
		p.run(ctx)
	})

	p.logger.Info("history pruning started",
		slog.Duration("retention", p.retention),
		slog.Duration("interval", p.interval),
	)
}

// Stop cancels the background goroutine and waits for it to finish.
func (p *HistoryPruner) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
	p.logger.Info("history pruning stopped")
}

func (p *HistoryPruner) run(ctx context.Context) {
	// Prune immediately on startup
	p.prune(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *HistoryPruner) prune(ctx context.Context) {
	removed, err := p.history.DeleteOlderThan(ctx, time.Now().Add(-p.retention))
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Error("history pruning failed",
			slog.String("error", err.Error()),
		)
		return
	}

	if removed > 0 {
		p.logger.Debug("history records pruned", slog.Int64("count", removed))
	}
}
