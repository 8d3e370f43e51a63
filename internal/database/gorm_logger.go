package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// slogGormLogger bridges GORM's logger.Interface onto slog. Level filtering
// is slog's job: when the configured level is above Debug the SQL
// formatting callback is never invoked.
type slogGormLogger struct{}

// LogMode is a no-op; filtering is delegated to slog.
func (l slogGormLogger) LogMode(logger.LogLevel) logger.Interface { return l }

func (l slogGormLogger) Info(_ context.Context, msg string, args ...any) {
	slog.Info(fmt.Sprintf(msg, args...))
}

func (l slogGormLogger) Warn(_ context.Context, msg string, args ...any) {
	slog.Warn(fmt.Sprintf(msg, args...))
}

func (l slogGormLogger) Error(_ context.Context, msg string, args ...any) {
	slog.Error(fmt.Sprintf(msg, args...))
}

// maxSQLLength caps SQL strings in log output; longer statements lose their
// middle to an ellipsis.
const maxSQLLength = 200

func truncateSQL(sql string) string {
	if len(sql) <= maxSQLLength {
		return sql
	}
	half := (maxSQLLength - 3) / 2
	return sql[:half] + "..." + sql[len(sql)-half:]
}

// Trace runs after every SQL operation. ErrRecordNotFound is the normal
// "no rows" outcome of First and logs at Debug with successful queries;
// everything else logs at Error.
func (l slogGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		sql, rows := fc()
		slog.Error("sql query failed",
			"sql", truncateSQL(sql),
			"rows", rows,
			"duration", elapsed,
			"error", err,
		)
		return
	}

	if !slog.Default().Enabled(ctx, slog.LevelDebug) {
		return
	}

	sql, rows := fc()
	slog.Debug("sql query",
		"sql", truncateSQL(sql),
		"rows", rows,
		"duration", elapsed,
	)
}
