package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixml/textstat/domain/count"
)

// terminalRecorder keeps the terminal progress notifications it receives.
type terminalRecorder struct {
	mu      sync.Mutex
	updates []count.Progress
}

func (r *terminalRecorder) OnChange(_ context.Context, progress count.Progress) error {
	if !progress.State().IsTerminal() {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, progress)
	return nil
}

func (r *terminalRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.updates)
}

func (r *terminalRecorder) last() count.Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updates[len(r.updates)-1]
}

// fakeRecordStore collects archived records in memory.
type fakeRecordStore struct {
	mu      sync.Mutex
	records []count.Record
}

func (f *fakeRecordStore) Save(_ context.Context, record count.Record) (count.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, record)
	return record, nil
}

func (f *fakeRecordStore) Find(_ context.Context, _ ...count.Option) ([]count.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]count.Record, len(f.records))
	copy(result, f.records)
	return result, nil
}

func (f *fakeRecordStore) FindOne(_ context.Context, _ ...count.Option) (count.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.records) == 0 {
		return count.Record{}, count.ErrNotFound
	}
	return f.records[0], nil
}

func (f *fakeRecordStore) Count(_ context.Context, _ ...count.Option) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.records)), nil
}

func (f *fakeRecordStore) DeleteOlderThan(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeRecordStore) saved() []count.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]count.Record, len(f.records))
	copy(result, f.records)
	return result
}

func TestCountService_Count(t *testing.T) {
	svc := NewCountService(testLogger())
	defer svc.Stop()

	result, err := svc.Count(context.Background(), helloRequest())
	require.NoError(t, err)

	assert.Equal(t, 11, result.Length())
	assert.Equal(t, 11, result.Characters())
	assert.Equal(t, 2, result.Lines())
	assert.Equal(t, 2, result.Words())
	assert.Equal(t, 5, result.SelectedLength())
	assert.Equal(t, 1, result.SelectedWords())
}

func TestCountService_CountInvalidRange(t *testing.T) {
	svc := NewCountService(testLogger())
	defer svc.Stop()

	request := count.NewRequest("abc", count.LineEndingLF, count.NewSelection(0, 99))
	_, err := svc.Count(context.Background(), request)
	assert.ErrorIs(t, err, count.ErrInvalidRange)
}

func TestCountService_SubmitAndWait(t *testing.T) {
	svc := NewCountService(testLogger())
	defer svc.Stop()

	op, err := svc.Submit(context.Background(), helloRequest())
	require.NoError(t, err)

	require.NoError(t, op.Wait(context.Background()))
	assert.Equal(t, count.StateCompleted, op.State())
	assert.Equal(t, 11, op.Result().Length())

	found, err := svc.Operation(op.ID())
	require.NoError(t, err)
	assert.Same(t, op, found)

	ops := svc.Operations()
	require.Len(t, ops, 1)
	assert.Equal(t, op.ID(), ops[0].ID())
}

func TestCountService_SubmitInvalidRange(t *testing.T) {
	svc := NewCountService(testLogger())
	defer svc.Stop()

	request := count.NewRequest("abc", count.LineEndingLF, count.NewSelection(5, 9))
	_, err := svc.Submit(context.Background(), request)
	assert.ErrorIs(t, err, count.ErrInvalidRange)
	assert.Empty(t, svc.Operations(), "rejected requests create no operation")
}

func TestCountService_OperationNotFound(t *testing.T) {
	svc := NewCountService(testLogger())
	defer svc.Stop()

	_, err := svc.Operation("no-such-id")
	assert.ErrorIs(t, err, count.ErrNotFound)

	assert.ErrorIs(t, svc.Cancel("no-such-id"), count.ErrNotFound)
	assert.ErrorIs(t, svc.Delete("no-such-id"), count.ErrNotFound)
}

// cancellingReporter cancels its operation through the service as soon as
// the first stage finishes.
type cancellingReporter struct {
	svc  *CountService
	once sync.Once
}

func (r *cancellingReporter) OnChange(_ context.Context, progress count.Progress) error {
	if progress.StagesDone() >= 1 {
		r.once.Do(func() {
			_ = r.svc.Cancel(progress.OperationID())
		})
	}
	return nil
}

func TestCountService_CancelKeepsFinishedStages(t *testing.T) {
	svc := NewCountService(testLogger())
	defer svc.Stop()

	reporter := &cancellingReporter{svc: svc}
	svc.WithReporter(reporter)

	op, err := svc.Submit(context.Background(), helloRequest())
	require.NoError(t, err)
	require.NoError(t, op.Wait(context.Background()))

	assert.Equal(t, count.StateCancelled, op.State())
	assert.ErrorIs(t, op.Err(), context.Canceled)
	assert.Equal(t, 11, op.Result().Length(), "the finished stage keeps its value")
	assert.Equal(t, 0, op.Result().Characters(), "later stages keep defaults")
}

func TestCountService_Delete(t *testing.T) {
	svc := NewCountService(testLogger())
	defer svc.Stop()

	op, err := svc.Submit(context.Background(), helloRequest())
	require.NoError(t, err)
	require.NoError(t, op.Wait(context.Background()))

	require.NoError(t, svc.Delete(op.ID()))
	_, err = svc.Operation(op.ID())
	assert.ErrorIs(t, err, count.ErrNotFound)
}

func TestCountService_StopRejectsNewWork(t *testing.T) {
	svc := NewCountService(testLogger())
	svc.Stop()

	_, err := svc.Submit(context.Background(), helloRequest())
	assert.ErrorIs(t, err, ErrServiceStopped)
}

func TestCountService_StopSettlesInFlightOperations(t *testing.T) {
	svc := NewCountService(testLogger()).WithConcurrency(1)

	ops := make([]*Operation, 0, 3)
	for range 3 {
		op, err := svc.Submit(context.Background(), helloRequest())
		require.NoError(t, err)
		ops = append(ops, op)
	}

	svc.Stop()

	for _, op := range ops {
		assert.True(t, op.State().IsTerminal(), "operation %s should be settled", op.ID())
	}
}

func TestCountService_ReporterReceivesTerminalState(t *testing.T) {
	recorder := &terminalRecorder{}
	svc := NewCountService(testLogger()).WithReporter(recorder)
	defer svc.Stop()

	op, err := svc.Submit(context.Background(), helloRequest())
	require.NoError(t, err)
	require.NoError(t, op.Wait(context.Background()))

	require.Eventually(t, func() bool {
		return recorder.count() == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, count.StateCompleted, recorder.last().State())
	assert.Equal(t, op.ID(), recorder.last().OperationID())
}

func TestCountService_HistoryArchive(t *testing.T) {
	store := &fakeRecordStore{}
	svc := NewCountService(testLogger()).WithHistory(store)
	defer svc.Stop()

	op, err := svc.Submit(context.Background(), helloRequest())
	require.NoError(t, err)
	require.NoError(t, op.Wait(context.Background()))

	require.Eventually(t, func() bool {
		return len(store.saved()) == 1
	}, time.Second, 5*time.Millisecond)

	record := store.saved()[0]
	assert.Equal(t, op.ID(), record.ID())
	assert.Equal(t, count.StateCompleted, record.State())
	assert.Equal(t, 11, record.TextUnits())
	assert.Equal(t, 11, record.Result().Length())
	assert.Equal(t, count.LineEndingLF, record.LineEnding())
}

func TestCountService_RetentionSweep(t *testing.T) {
	svc := NewCountService(testLogger()).
		WithRetention(10 * time.Millisecond).
		WithSweepInterval(10 * time.Millisecond)
	svc.Start(context.Background())
	defer svc.Stop()

	op, err := svc.Submit(context.Background(), helloRequest())
	require.NoError(t, err)
	require.NoError(t, op.Wait(context.Background()))

	require.Eventually(t, func() bool {
		return len(svc.Operations()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestCountService_ConcurrentSubmissions(t *testing.T) {
	svc := NewCountService(testLogger()).WithConcurrency(2)
	defer svc.Stop()

	var wg sync.WaitGroup
	results := make([]*Operation, 10)
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			op, err := svc.Submit(context.Background(), helloRequest())
			if err != nil {
				return
			}
			results[i] = op
		}()
	}
	wg.Wait()

	for _, op := range results {
		require.NotNil(t, op)
		require.NoError(t, op.Wait(context.Background()))
		assert.Equal(t, count.StateCompleted, op.State())
		assert.Equal(t, 11, op.Result().Length())
	}
	assert.Len(t, svc.Operations(), 10)
}
