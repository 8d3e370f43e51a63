package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/helixml/textstat/domain/count"
	"github.com/helixml/textstat/internal/database"
)

// RecordStore implements count.RecordStore using GORM.
type RecordStore struct {
	database.Repository[count.Record, RecordModel]
}

// NewRecordStore creates a record store backed by the given database.
func NewRecordStore(db database.Database) RecordStore {
	return RecordStore{
		Repository: database.NewRepository[count.Record, RecordModel](db, RecordMapper{}, "count record"),
	}
}

// Save appends the record of a settled operation.
func (s RecordStore) Save(ctx context.Context, record count.Record) (count.Record, error) {
	model := s.Mapper().ToModel(record)

	if result := s.DB(ctx).Create(&model); result.Error != nil {
		return count.Record{}, fmt.Errorf("save count record: %w", result.Error)
	}

	return s.Mapper().ToDomain(model), nil
}

// FindOne retrieves a single record, translating the repository's not-found
// sentinel into the domain's.
func (s RecordStore) FindOne(ctx context.Context, options ...count.Option) (count.Record, error) {
	record, err := s.Repository.FindOne(ctx, options...)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return count.Record{}, fmt.Errorf("%w: count record", count.ErrNotFound)
		}
		return count.Record{}, err
	}

	return record, nil
}

// DeleteOlderThan removes records created before the cutoff and reports how
// many rows were pruned.
func (s RecordStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	removed, err := s.DeleteBy(ctx, count.WithCreatedBefore(cutoff))
	if err != nil {
		return 0, fmt.Errorf("prune count records: %w", err)
	}

	return removed, nil
}
