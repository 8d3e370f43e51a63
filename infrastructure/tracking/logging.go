package tracking

import (
	"context"
	"log/slog"

	"github.com/helixml/textstat/domain/count"
)

// LoggingReporter implements Reporter by logging progress changes.
type LoggingReporter struct {
	logger *slog.Logger
}

// NewLoggingReporter creates a new LoggingReporter.
func NewLoggingReporter(logger *slog.Logger) *LoggingReporter {
	return &LoggingReporter{
		logger: logger,
	}
}

// OnChange logs the operation progress change.
func (r *LoggingReporter) OnChange(_ context.Context, progress count.Progress) error {
	attrs := []any{
		slog.String("operation_id", progress.OperationID()),
		slog.String("state", string(progress.State())),
		slog.Float64("completion_percent", progress.CompletionPercent()),
	}
	if progress.Stage() != "" {
		attrs = append(attrs, slog.String("stage", progress.Stage()))
	}
	if progress.Message() != "" {
		attrs = append(attrs, slog.String("message", progress.Message()))
	}

	r.logger.Info("count operation", attrs...)
	return nil
}
