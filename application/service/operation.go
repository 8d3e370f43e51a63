package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/helixml/textstat/domain/count"
	"github.com/helixml/textstat/infrastructure/tracking"
)

// Operation is one ephemeral unit of counting work. It moves from pending
// through running to exactly one terminal state; the settlement hook runs
// on every exit path, so a waiter is never left without a signal.
type Operation struct {
	id        string
	request   count.Request
	createdAt time.Time

	mu        sync.Mutex
	state     count.State
	result    count.Result
	err       error
	duration  time.Duration
	cancelled bool
	cancel    context.CancelFunc

	done chan struct{}
}

func newOperation(request count.Request) *Operation {
	return &Operation{
		id:        ulid.Make().String(),
		request:   request,
		createdAt: time.Now(),
		state:     count.StatePending,
		result:    count.NewResult(),
		done:      make(chan struct{}),
	}
}

// ID returns the operation identifier.
func (o *Operation) ID() string { return o.id }

// Request returns the request this operation was created for.
func (o *Operation) Request() count.Request { return o.request }

// CreatedAt returns when the operation was submitted.
func (o *Operation) CreatedAt() time.Time { return o.createdAt }

// State returns the current state.
func (o *Operation) State() count.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Result returns the result record. It is meaningful once the operation is
// terminal; a cancelled operation keeps the values of every stage that
// finished before the cancellation checkpoint and defaults for the rest.
// A cancelled outcome is not a complete measurement.
func (o *Operation) Result() count.Result {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result
}

// Err returns the reason a cancelled operation stopped, nil otherwise.
func (o *Operation) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Duration returns the wall time the operation ran for, or the elapsed
// time so far when it is still in flight.
func (o *Operation) Duration() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.IsTerminal() {
		return o.duration
	}
	return time.Since(o.createdAt)
}

// Done returns a channel closed when the operation reaches a terminal state.
func (o *Operation) Done() <-chan struct{} { return o.done }

// Wait blocks until the operation settles or ctx expires.
func (o *Operation) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel requests cooperative cancellation. It is safe to call at any time
// and more than once; the operation settles at its next checkpoint. Calling
// Cancel before the operation starts guarantees an all-default result.
func (o *Operation) Cancel() {
	o.mu.Lock()
	o.cancelled = true
	cancel := o.cancel
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// run executes the counter and settles the operation exactly once. The
// deferred settlement covers normal completion, cancellation, and panics
// inside the counter.
func (o *Operation) run(ctx context.Context, counter *Counter, tracker *tracking.Tracker) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	started := time.Now()
	result := count.NewResult()
	var runErr error

	defer func() {
		o.settle(result, runErr, time.Since(started), tracker)
		close(o.done)
	}()

	o.mu.Lock()
	o.cancel = cancel
	o.state = count.StateRunning
	preCancelled := o.cancelled
	o.mu.Unlock()
	if preCancelled {
		cancel()
	}

	result, runErr = o.execute(ctx, counter)
}

func (o *Operation) execute(ctx context.Context, counter *Counter) (result count.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("counter panicked: %v", r)
		}
	}()
	return counter.Run(ctx)
}

// settle records the terminal state. The first settlement wins; later
// calls are no-ops so the completion signal fires once.
func (o *Operation) settle(result count.Result, runErr error, elapsed time.Duration, tracker *tracking.Tracker) {
	o.mu.Lock()
	if o.state.IsTerminal() {
		o.mu.Unlock()
		return
	}
	o.result = result
	o.err = runErr
	o.duration = elapsed
	if runErr != nil {
		o.state = count.StateCancelled
	} else {
		o.state = count.StateCompleted
	}
	state := o.state
	o.mu.Unlock()

	if tracker == nil {
		return
	}
	ctx := context.Background()
	if state == count.StateCancelled {
		tracker.Cancel(ctx, runErr.Error())
		return
	}
	tracker.Complete(ctx)
}
