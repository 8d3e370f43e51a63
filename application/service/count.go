package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/helixml/textstat/domain/count"
	"github.com/helixml/textstat/infrastructure/segment"
	"github.com/helixml/textstat/infrastructure/tracking"
)

const (
	defaultConcurrency   = 4
	defaultRetention     = time.Hour
	defaultSweepInterval = time.Minute
)

// CountService owns the lifecycle of counting operations: it validates
// requests, runs each accepted request as an independently cancellable
// operation, bounds how many run at once, and retires settled operations
// after a retention window.
type CountService struct {
	logger        *slog.Logger
	reporter      tracking.Reporter
	history       count.RecordStore
	sem           *semaphore.Weighted
	retention     time.Duration
	sweepInterval time.Duration

	lifecycle context.Context
	shutdown  context.CancelFunc

	mu         sync.RWMutex
	operations map[string]*Operation
	stopped    bool

	sweepCancel context.CancelFunc
	wg          sync.WaitGroup
}

// NewCountService creates a count service with the default concurrency
// bound and retention window.
func NewCountService(logger *slog.Logger) *CountService {
	lifecycle, shutdown := context.WithCancel(context.Background())
	return &CountService{
		logger:        logger,
		sem:           semaphore.NewWeighted(defaultConcurrency),
		retention:     defaultRetention,
		sweepInterval: defaultSweepInterval,
		lifecycle:     lifecycle,
		shutdown:      shutdown,
		operations:    make(map[string]*Operation),
	}
}

// WithConcurrency bounds how many operations count at the same time.
func (s *CountService) WithConcurrency(n int) *CountService {
	if n > 0 {
		s.sem = semaphore.NewWeighted(int64(n))
	}
	return s
}

// WithReporter subscribes a progress reporter to every operation.
func (s *CountService) WithReporter(reporter tracking.Reporter) *CountService {
	s.reporter = reporter
	return s
}

// WithHistory archives a record for every settled operation.
func (s *CountService) WithHistory(store count.RecordStore) *CountService {
	s.history = store
	return s
}

// WithRetention sets how long settled operations stay readable before the
// sweeper retires them. Zero disables sweeping.
func (s *CountService) WithRetention(d time.Duration) *CountService {
	s.retention = d
	return s
}

// WithSweepInterval sets how often the sweeper looks for retired operations.
func (s *CountService) WithSweepInterval(d time.Duration) *CountService {
	if d > 0 {
		s.sweepInterval = d
	}
	return s
}

// Count runs a request synchronously on the caller's context and returns
// the result. No operation bookkeeping happens; the caller cancels through
// ctx and receives whatever stages finished, plus the context error.
func (s *CountService) Count(ctx context.Context, request count.Request) (count.Result, error) {
	counter, err := NewCounter(request)
	if err != nil {
		return count.NewResult(), err
	}
	return counter.Run(ctx)
}

// Submit validates the request and starts it as an asynchronous operation.
// The returned operation is already registered and will settle even if the
// service stops first.
func (s *CountService) Submit(ctx context.Context, request count.Request) (*Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	counter, err := NewCounter(request)
	if err != nil {
		return nil, err
	}

	op := newOperation(request)
	tracker := tracking.TrackerForOperation(op.ID(), len(request.RequiredInfo().Names()), s.logger)
	if s.reporter != nil {
		tracker.Subscribe(s.reporter)
	}
	counter = counter.WithTracker(tracker)

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil, ErrServiceStopped
	}
	s.operations[op.ID()] = op
	s.mu.Unlock()

	s.logger.Debug("operation submitted",
		slog.String("operation_id", op.ID()),
		slog.String("metrics", request.RequiredInfo().String()),
		slog.Int("text_bytes", len(request.Text())),
	)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// A failed acquire means the service is shutting down; run still
		// settles the operation at its first checkpoint.
		if err := s.sem.Acquire(s.lifecycle, 1); err == nil {
			defer s.sem.Release(1)
		}
		op.run(s.lifecycle, counter, tracker)
		s.archive(op)
	}()

	return op, nil
}

// Operation returns a registered operation by id.
func (s *CountService) Operation(id string) (*Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	op, ok := s.operations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", count.ErrNotFound, id)
	}
	return op, nil
}

// Operations returns all registered operations, newest first.
func (s *CountService) Operations() []*Operation {
	s.mu.RLock()
	ops := make([]*Operation, 0, len(s.operations))
	for _, op := range s.operations {
		ops = append(ops, op)
	}
	s.mu.RUnlock()

	sort.Slice(ops, func(i, j int) bool {
		return ops[i].CreatedAt().After(ops[j].CreatedAt())
	})
	return ops
}

// Cancel requests cancellation of a registered operation.
func (s *CountService) Cancel(id string) error {
	op, err := s.Operation(id)
	if err != nil {
		return err
	}
	op.Cancel()
	return nil
}

// Delete cancels an operation and removes it from the registry. The
// operation still settles; it just stops being observable here.
func (s *CountService) Delete(id string) error {
	s.mu.Lock()
	op, ok := s.operations[id]
	if ok {
		delete(s.operations, id)
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", count.ErrNotFound, id)
	}
	op.Cancel()
	return nil
}

// Start launches the retention sweeper. With zero retention this is a no-op.
func (s *CountService) Start(ctx context.Context) {
	if s.retention <= 0 {
		s.logger.Info("operation sweeper disabled")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, s.sweepCancel = context.WithCancel(ctx)
	s.wg.Go(func() {
		s.runSweeper(ctx)
	})

	s.logger.Info("operation sweeper started", slog.Duration("retention", s.retention))
}

// Stop rejects new submissions, cancels in-flight operations, and waits for
// everything to settle.
func (s *CountService) Stop() {
	s.mu.Lock()
	s.stopped = true
	sweepCancel := s.sweepCancel
	s.sweepCancel = nil
	s.mu.Unlock()

	if sweepCancel != nil {
		sweepCancel()
	}
	s.shutdown()
	s.wg.Wait()
	s.logger.Info("count service stopped")
}

func (s *CountService) runSweeper(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep retires settled operations older than the retention window.
func (s *CountService) sweep() {
	cutoff := time.Now().Add(-s.retention)

	s.mu.Lock()
	removed := 0
	for id, op := range s.operations {
		if !op.State().IsTerminal() {
			continue
		}
		if op.CreatedAt().Before(cutoff) {
			delete(s.operations, id)
			removed++
		}
	}
	s.mu.Unlock()

	if removed > 0 {
		s.logger.Debug("operations retired", slog.Int("count", removed))
	}
}

// archive appends a history record for a settled operation.
func (s *CountService) archive(op *Operation) {
	if s.history == nil {
		return
	}

	request := op.Request()
	record := count.NewRecord(
		op.ID(),
		op.CreatedAt(),
		op.State(),
		request.RequiredInfo(),
		request.LineEnding(),
		request.CountsLineEnding(),
		segment.UTF16Length(request.Text()),
		op.Duration(),
		op.Result(),
	)

	if _, err := s.history.Save(context.Background(), record); err != nil {
		s.logger.Warn("failed to archive operation",
			slog.String("operation_id", op.ID()),
			slog.String("error", err.Error()),
		)
	}
}
