package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixml/textstat/domain/count"
	"github.com/helixml/textstat/infrastructure/tracking"
)

func helloRequest() count.Request {
	return count.NewRequest("Hello\nWorld", count.LineEndingLF, count.NewSelection(0, 5))
}

func TestOperation_RunToCompletion(t *testing.T) {
	request := helloRequest()
	counter, err := NewCounter(request)
	require.NoError(t, err)

	op := newOperation(request)
	assert.Equal(t, count.StatePending, op.State())
	assert.NotEmpty(t, op.ID())

	tracker := tracking.TrackerForOperation(op.ID(), 8, testLogger())
	terminal := &terminalRecorder{}
	tracker.Subscribe(terminal)

	go op.run(context.Background(), counter, tracker)

	require.NoError(t, op.Wait(context.Background()))
	assert.Equal(t, count.StateCompleted, op.State())
	assert.NoError(t, op.Err())
	assert.Equal(t, 11, op.Result().Length())
	assert.Equal(t, 2, op.Result().Words())
	assert.Equal(t, 1, terminal.count(), "completion should be signalled exactly once")
}

func TestOperation_CancelBeforeRun(t *testing.T) {
	request := helloRequest()
	counter, err := NewCounter(request)
	require.NoError(t, err)

	op := newOperation(request)
	op.Cancel()
	op.run(context.Background(), counter, nil)

	assert.Equal(t, count.StateCancelled, op.State())
	assert.ErrorIs(t, op.Err(), context.Canceled)
	assert.Equal(t, count.NewResult(), op.Result(), "no stage ran, so every field keeps its default")
}

func TestOperation_CancelBeforeRun_EmptyText(t *testing.T) {
	request := count.NewRequest("", count.LineEndingLF, count.NewCaret(0))
	counter, err := NewCounter(request)
	require.NoError(t, err)

	op := newOperation(request)
	op.Cancel()
	op.run(context.Background(), counter, nil)

	assert.Equal(t, count.StateCancelled, op.State(), "cancellation wins over the empty-text short-circuit")
	assert.ErrorIs(t, op.Err(), context.Canceled)
	assert.Equal(t, count.NewResult(), op.Result())
}

func TestOperation_CancelIsIdempotentAfterCompletion(t *testing.T) {
	request := helloRequest()
	counter, err := NewCounter(request)
	require.NoError(t, err)

	op := newOperation(request)
	op.run(context.Background(), counter, nil)
	require.Equal(t, count.StateCompleted, op.State())

	op.Cancel()
	op.Cancel()

	assert.Equal(t, count.StateCompleted, op.State(), "terminal state is entered exactly once")
	assert.NoError(t, op.Err())
}

func TestOperation_WaitHonorsContext(t *testing.T) {
	op := newOperation(helloRequest())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := op.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOperation_DoneChannelCloses(t *testing.T) {
	request := helloRequest()
	counter, err := NewCounter(request)
	require.NoError(t, err)

	op := newOperation(request)

	select {
	case <-op.Done():
		t.Fatal("done channel closed before the operation settled")
	default:
	}

	op.run(context.Background(), counter, nil)

	select {
	case <-op.Done():
	case <-time.After(time.Second):
		t.Fatal("done channel never closed")
	}
}

func TestOperation_SettlesWhenParentContextDies(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	request := helloRequest()
	counter, err := NewCounter(request)
	require.NoError(t, err)

	op := newOperation(request)
	op.run(ctx, counter, nil)

	assert.Equal(t, count.StateCancelled, op.State())
	assert.True(t, errors.Is(op.Err(), context.Canceled))
}
