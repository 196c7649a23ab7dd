// Package gormlogger routes gorm's query logging through zerolog.
package gormlogger

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlog "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// Logger implements gorm's logger.Interface on top of a zerolog.Logger.
type Logger struct {
	log           zerolog.Logger
	level         gormlog.LogLevel
	slowThreshold time.Duration
}

// New creates a gorm logger writing to log at warn level.
// Queries slower than slowThreshold are logged as warnings; zero disables this.
func New(log zerolog.Logger, slowThreshold time.Duration) *Logger {
	return &Logger{
		log:           log,
		level:         gormlog.Warn,
		slowThreshold: slowThreshold,
	}
}

// LogMode returns a copy of the logger using level.
func (l *Logger) LogMode(level gormlog.LogLevel) gormlog.Interface {
	out := *l
	out.level = level

	return &out
}

// Info logs at info level.
func (l *Logger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlog.Info {
		l.log.Info().Msgf(msg, data...)
	}
}

// Warn logs at warn level.
func (l *Logger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlog.Warn {
		l.log.Warn().Msgf(msg, data...)
	}
}

// Error logs at error level.
func (l *Logger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlog.Error {
		l.log.Error().Msgf(msg, data...)
	}
}

// Trace logs a finished SQL statement.
// Failed statements are errors, slow ones warnings and all others debug output
// when the level is info. Missing records are not treated as failures.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlog.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= gormlog.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.log.Error().Err(err).
			Str("file", utils.FileWithLineNum()).
			Dur("elapsed", elapsed).
			Int64("rows", rows).
			Str("sql", sql).
			Msg("sql statement failed")
	case l.slowThreshold != 0 && elapsed > l.slowThreshold && l.level >= gormlog.Warn:
		sql, rows := fc()
		l.log.Warn().
			Str("file", utils.FileWithLineNum()).
			Dur("elapsed", elapsed).
			Dur("threshold", l.slowThreshold).
			Int64("rows", rows).
			Str("sql", sql).
			Msg("slow sql statement")
	case l.level == gormlog.Info:
		sql, rows := fc()
		l.log.Debug().
			Str("file", utils.FileWithLineNum()).
			Dur("elapsed", elapsed).
			Int64("rows", rows).
			Str("sql", sql).
			Msg("sql trace")
	}
}
