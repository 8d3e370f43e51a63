package tracking_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/helixml/textstat/domain/count"
	"github.com/helixml/textstat/infrastructure/tracking"
)

// fakeReporter records all progress updates delivered to it.
type fakeReporter struct {
	mu      sync.Mutex
	updates []count.Progress
}

func (f *fakeReporter) OnChange(_ context.Context, progress count.Progress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, progress)
	return nil
}

func (f *fakeReporter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

func (f *fakeReporter) last() count.Progress {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates[len(f.updates)-1]
}

func TestCooldown_FirstUpdatePassesThrough(t *testing.T) {
	fake := &fakeReporter{}
	cooldown := tracking.NewCooldown(fake, time.Second)
	defer func() { _ = cooldown.Close() }()

	ctx := context.Background()
	progress := count.NewProgress("op-1", 8).Running("length")

	if err := cooldown.OnChange(ctx, progress); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fake.count() != 1 {
		t.Fatalf("expected 1 delivery, got %d", fake.count())
	}
}

func TestCooldown_ThrottlesRapidUpdates(t *testing.T) {
	fake := &fakeReporter{}
	cooldown := tracking.NewCooldown(fake, 500*time.Millisecond)
	defer func() { _ = cooldown.Close() }()

	ctx := context.Background()
	progress := count.NewProgress("op-1", 20)

	// First update passes through immediately.
	progress = progress.StageDone("length")
	_ = cooldown.OnChange(ctx, progress)

	// Rapid subsequent updates should be throttled.
	for i := 2; i <= 20; i++ {
		progress = progress.StageDone("characters")
		_ = cooldown.OnChange(ctx, progress)
	}

	// Only the first update should have been delivered so far.
	if fake.count() != 1 {
		t.Fatalf("expected 1 delivery during throttle window, got %d", fake.count())
	}

	// Wait for the cooldown timer to flush the pending progress.
	time.Sleep(700 * time.Millisecond)

	if fake.count() != 2 {
		t.Fatalf("expected 2 deliveries after cooldown, got %d", fake.count())
	}

	// The flushed progress should carry the latest stage tally.
	if fake.last().StagesDone() != 20 {
		t.Fatalf("expected pending flush to have stagesDone=20, got %d", fake.last().StagesDone())
	}
}

func TestCooldown_TerminalStateAlwaysFlushes(t *testing.T) {
	fake := &fakeReporter{}
	cooldown := tracking.NewCooldown(fake, time.Hour) // very long interval
	defer func() { _ = cooldown.Close() }()

	ctx := context.Background()
	progress := count.NewProgress("op-1", 8)

	// First update passes through.
	progress = progress.StageDone("length")
	_ = cooldown.OnChange(ctx, progress)

	// This would normally be throttled, but terminal states bypass.
	progress = progress.Completed()
	_ = cooldown.OnChange(ctx, progress)

	if fake.count() != 2 {
		t.Fatalf("expected 2 deliveries (initial + terminal), got %d", fake.count())
	}

	if fake.last().State() != count.StateCompleted {
		t.Fatalf("expected completed state, got %s", fake.last().State())
	}
}

func TestCooldown_CancelledStateFlushesImmediately(t *testing.T) {
	fake := &fakeReporter{}
	cooldown := tracking.NewCooldown(fake, time.Hour)
	defer func() { _ = cooldown.Close() }()

	ctx := context.Background()
	progress := count.NewProgress("op-1", 8)

	progress = progress.StageDone("length")
	_ = cooldown.OnChange(ctx, progress)

	progress = progress.Cancelled("caller cancelled")
	_ = cooldown.OnChange(ctx, progress)

	if fake.count() != 2 {
		t.Fatalf("expected 2 deliveries, got %d", fake.count())
	}

	if fake.last().State() != count.StateCancelled {
		t.Fatalf("expected cancelled state, got %s", fake.last().State())
	}
}

func TestCooldown_IndependentOperationsNotAffected(t *testing.T) {
	fake := &fakeReporter{}
	cooldown := tracking.NewCooldown(fake, time.Hour)
	defer func() { _ = cooldown.Close() }()

	ctx := context.Background()

	progress1 := count.NewProgress("op-1", 8)
	progress2 := count.NewProgress("op-2", 8)

	// Both first updates should pass through.
	_ = cooldown.OnChange(ctx, progress1.StageDone("length"))
	_ = cooldown.OnChange(ctx, progress2.StageDone("length"))

	if fake.count() != 2 {
		t.Fatalf("expected 2 deliveries for independent operations, got %d", fake.count())
	}
}

func TestCooldown_ConcurrentUpdates(t *testing.T) {
	fake := &fakeReporter{}
	cooldown := tracking.NewCooldown(fake, 200*time.Millisecond)
	defer func() { _ = cooldown.Close() }()

	ctx := context.Background()
	progress := count.NewProgress("op-1", 50)

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cooldown.OnChange(ctx, progress.StageDone("words"))
		}()
	}
	wg.Wait()

	// Complete to flush everything.
	_ = cooldown.OnChange(ctx, progress.Completed())

	// Should have far fewer than 50 deliveries due to throttling,
	// plus the terminal delivery.
	if fake.count() >= 50 {
		t.Fatalf("expected throttling to reduce deliveries, got %d", fake.count())
	}

	// The last delivery should be the terminal state.
	if fake.last().State() != count.StateCompleted {
		t.Fatalf("expected completed state last, got %s", fake.last().State())
	}
}

func TestCooldown_CloseFlushesPending(t *testing.T) {
	fake := &fakeReporter{}
	cooldown := tracking.NewCooldown(fake, time.Hour) // long interval

	ctx := context.Background()
	progress := count.NewProgress("op-1", 8)

	// First passes through.
	_ = cooldown.OnChange(ctx, progress.StageDone("length"))

	// This is throttled (pending).
	pending := progress.StageDone("length").StageDone("characters")
	_ = cooldown.OnChange(ctx, pending)

	if fake.count() != 1 {
		t.Fatalf("expected 1 delivery before close, got %d", fake.count())
	}

	// Close should flush the pending progress.
	_ = cooldown.Close()

	if fake.count() != 2 {
		t.Fatalf("expected 2 deliveries after close, got %d", fake.count())
	}

	if fake.last().StagesDone() != 2 {
		t.Fatalf("expected flushed progress stagesDone=2, got %d", fake.last().StagesDone())
	}
}

func TestCooldown_AllowsUpdateAfterIntervalPasses(t *testing.T) {
	fake := &fakeReporter{}
	cooldown := tracking.NewCooldown(fake, 100*time.Millisecond)
	defer func() { _ = cooldown.Close() }()

	ctx := context.Background()
	progress := count.NewProgress("op-1", 8)

	_ = cooldown.OnChange(ctx, progress.StageDone("length"))
	if fake.count() != 1 {
		t.Fatalf("expected 1, got %d", fake.count())
	}

	// Wait for interval to pass.
	time.Sleep(150 * time.Millisecond)

	_ = cooldown.OnChange(ctx, progress.StageDone("characters"))
	if fake.count() != 2 {
		t.Fatalf("expected 2 after interval passed, got %d", fake.count())
	}
}
