package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/visearch/visearch/internal/log"
)

// maxTracedSQL bounds the SQL text in a trace line; longer statements keep
// their head and tail around an ellipsis.
const maxTracedSQL = 200

// queryLogger routes GORM's own messages and per-query traces onto the
// application logger, so database output obeys the configured level and
// format instead of GORM's default stderr writer.
type queryLogger struct {
	logger *log.Logger
}

// LogMode is a no-op; the application logger already filters by level.
func (l queryLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface { return l }

func (l queryLogger) Info(_ context.Context, msg string, args ...any) {
	l.logger.Info(fmt.Sprintf(msg, args...))
}

func (l queryLogger) Warn(_ context.Context, msg string, args ...any) {
	l.logger.Warn(fmt.Sprintf(msg, args...))
}

func (l queryLogger) Error(_ context.Context, msg string, args ...any) {
	l.logger.Error(fmt.Sprintf(msg, args...))
}

// Trace reports each executed statement. Failures log at error level except
// ErrRecordNotFound, which is the ordinary empty result of First and traces
// at debug like any successful query. The SQL formatting callback only runs
// when the debug level is enabled.
func (l queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		sql, rows := fc()
		l.logger.Error("query failed",
			"sql", elideSQL(sql),
			"rows", rows,
			"duration", elapsed,
			"error", err,
		)
		return
	}

	if !l.logger.Handler().Enabled(ctx, slog.LevelDebug) {
		return
	}

	sql, rows := fc()
	l.logger.Debug("query",
		"sql", elideSQL(sql),
		"rows", rows,
		"duration", elapsed,
	)
}

func elideSQL(sql string) string {
	if len(sql) <= maxTracedSQL {
		return sql
	}
	half := (maxTracedSQL - 3) / 2
	return sql[:half] + "..." + sql[len(sql)-half:]
}
