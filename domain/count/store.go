package count

import (
	"context"
	"time"
)

// RecordStore defines the interface for history Record persistence.
type RecordStore interface {
	// Save appends the record for a finished operation.
	Save(ctx context.Context, record Record) (Record, error)

	// Find retrieves records matching the given options.
	Find(ctx context.Context, options ...Option) ([]Record, error)

	// FindOne retrieves a single record matching the given options.
	FindOne(ctx context.Context, options ...Option) (Record, error)

	// Count returns the number of records matching the given options.
	Count(ctx context.Context, options ...Option) (int64, error)

	// DeleteOlderThan removes records created before the cutoff and
	// reports how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
