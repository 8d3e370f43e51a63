package tracking

import (
	"context"
	"log/slog"
	"sync"

	"github.com/helixml/textstat/domain/count"
)

// Tracker provides progress tracking with automatic notification to
// subscribers. It wraps a Progress value and propagates state changes to
// registered reporters.
type Tracker struct {
	progress    count.Progress
	subscribers []Reporter
	logger      *slog.Logger
	mu          sync.RWMutex
}

// NewTracker creates a new progress tracker wrapping the given Progress.
func NewTracker(progress count.Progress, logger *slog.Logger) *Tracker {
	return &Tracker{
		progress:    progress,
		subscribers: make([]Reporter, 0),
		logger:      logger,
	}
}

// TrackerForOperation creates a Tracker for the given operation id and
// expected stage count.
func TrackerForOperation(operationID string, stagesTotal int, logger *slog.Logger) *Tracker {
	return NewTracker(count.NewProgress(operationID, stagesTotal), logger)
}

// Progress returns a copy of the current Progress.
func (t *Tracker) Progress() count.Progress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progress
}

// Subscribe adds a reporter to receive progress change notifications.
func (t *Tracker) Subscribe(reporter Reporter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers = append(t.subscribers, reporter)
}

// Running marks the given stage as started.
func (t *Tracker) Running(ctx context.Context, stage string) {
	t.mu.Lock()
	t.progress = t.progress.Running(stage)
	progress := t.progress
	t.mu.Unlock()

	t.notifySubscribers(ctx, progress)
}

// StageDone marks the given stage as finished.
func (t *Tracker) StageDone(ctx context.Context, stage string) {
	t.mu.Lock()
	t.progress = t.progress.StageDone(stage)
	progress := t.progress
	t.mu.Unlock()

	t.notifySubscribers(ctx, progress)
}

// Complete marks the operation as completed.
func (t *Tracker) Complete(ctx context.Context) {
	t.mu.Lock()
	t.progress = t.progress.Completed()
	progress := t.progress
	t.mu.Unlock()

	t.notifySubscribers(ctx, progress)
}

// Cancel marks the operation as cancelled with a reason.
func (t *Tracker) Cancel(ctx context.Context, reason string) {
	t.mu.Lock()
	t.progress = t.progress.Cancelled(reason)
	progress := t.progress
	t.mu.Unlock()

	t.notifySubscribers(ctx, progress)
}

// notifySubscribers sends the progress update to all registered reporters.
func (t *Tracker) notifySubscribers(ctx context.Context, progress count.Progress) {
	t.mu.RLock()
	subscribers := make([]Reporter, len(t.subscribers))
	copy(subscribers, t.subscribers)
	t.mu.RUnlock()

	for _, subscriber := range subscribers {
		if err := subscriber.OnChange(ctx, progress); err != nil {
			t.logger.Error("failed to notify subscriber",
				slog.String("error", err.Error()),
				slog.String("operation_id", progress.OperationID()),
			)
			// Continue notifying other subscribers even if one fails
		}
	}
}

// Notify explicitly notifies all subscribers of the current progress.
// Use this after initial setup to announce the tracker's existence.
func (t *Tracker) Notify(ctx context.Context) {
	t.mu.RLock()
	progress := t.progress
	t.mu.RUnlock()

	t.notifySubscribers(ctx, progress)
}
