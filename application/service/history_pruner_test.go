package service

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixml/textstat/domain/count"
	"github.com/helixml/textstat/internal/config"
)

// fakePruneStore records DeleteOlderThan calls and simulates removals.
type fakePruneStore struct {
	mu      sync.Mutex
	cutoffs []time.Time
	removed int64
}

func (f *fakePruneStore) Save(_ context.Context, record count.Record) (count.Record, error) {
	return record, nil
}

func (f *fakePruneStore) Find(_ context.Context, _ ...count.Option) ([]count.Record, error) {
	return nil, nil
}

func (f *fakePruneStore) FindOne(_ context.Context, _ ...count.Option) (count.Record, error) {
	return count.Record{}, count.ErrNotFound
}

func (f *fakePruneStore) Count(_ context.Context, _ ...count.Option) (int64, error) {
	return 0, nil
}

func (f *fakePruneStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.removed, nil
}

func (f *fakePruneStore) pruneCalls() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]time.Time, len(f.cutoffs))
	copy(result, f.cutoffs)
	return result
}

func TestHistoryPruner_Enabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	store := &fakePruneStore{removed: 3}

	cfg := config.NewHistoryConfig().
		WithEnabled(true).
		WithRetentionSeconds(3600).
		WithSweepIntervalSeconds(0.01) // 10ms

	pruner := NewHistoryPruner(cfg, store, logger)
	pruner.Start(context.Background())

	require.Eventually(t, func() bool {
		return len(store.pruneCalls()) >= 2
	}, time.Second, 5*time.Millisecond)

	pruner.Stop()

	// Cutoffs trail the current time by the retention window.
	for _, cutoff := range store.pruneCalls() {
		age := time.Since(cutoff)
		assert.InDelta(t, time.Hour.Seconds(), age.Seconds(), 5)
	}
}

func TestHistoryPruner_Disabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	store := &fakePruneStore{}

	cfg := config.NewHistoryConfig().
		WithEnabled(false)

	pruner := NewHistoryPruner(cfg, store, logger)
	pruner.Start(context.Background())

	time.Sleep(50 * time.Millisecond)

	pruner.Stop()

	assert.Empty(t, store.pruneCalls())
}

func TestHistoryPruner_NilStore(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	cfg := config.NewHistoryConfig().
		WithEnabled(true).
		WithSweepIntervalSeconds(0.01)

	pruner := NewHistoryPruner(cfg, nil, logger)
	pruner.Start(context.Background())

	time.Sleep(50 * time.Millisecond)

	pruner.Stop()
}
