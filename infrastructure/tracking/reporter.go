// Package tracking reports counting-operation progress to subscribers:
// stage transitions flow from the engine through a Tracker to reporters,
// optionally rate-limited so chatty stages do not flood the log.
package tracking

import (
	"context"

	"github.com/helixml/textstat/domain/count"
)

// Reporter receives progress updates for counting operations.
type Reporter interface {
	OnChange(ctx context.Context, progress count.Progress) error
}

// NullReporter discards every update.
type NullReporter struct{}

// NewNullReporter creates a reporter that drops all updates.
func NewNullReporter() NullReporter { return NullReporter{} }

// OnChange discards the update.
func (NullReporter) OnChange(context.Context, count.Progress) error { return nil }
