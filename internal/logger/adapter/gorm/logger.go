// Package gorm routes gorm's log output through zerolog.
package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SlowThreshold marks statements slower than this as warnings.
const SlowThreshold = 200 * time.Millisecond

// Logger implements gorm's logger.Interface on top of a zerolog.Logger.
type Logger struct {
	log   zerolog.Logger
	level gormlogger.LogLevel
}

// New returns a gorm logger writing to log.
// sqlLevel is one of trace, debug, info, warn, error; anything else silences gorm.
func New(log zerolog.Logger, sqlLevel string) *Logger {
	return &Logger{log: log, level: ParseLevel(sqlLevel)}
}

// ParseLevel maps a zerolog level name onto gorm's coarser levels.
func ParseLevel(level string) gormlogger.LogLevel {
	switch level {
	case "trace", "debug", "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}

// LogMode returns a copy with the given level.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level

	return &cp
}

// Info logs at info level.
func (l *Logger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.log.Info().Msg(fmt.Sprintf(msg, args...))
	}
}

// Warn logs at warn level.
func (l *Logger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.log.Warn().Msg(fmt.Sprintf(msg, args...))
	}
}

// Error logs at error level.
func (l *Logger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.log.Error().Msg(fmt.Sprintf(msg, args...))
	}
}

// Trace logs one executed statement. Record-not-found is not an error here.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	var event *zerolog.Event

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		event = l.log.Error().Err(err)
	case elapsed > SlowThreshold && l.level >= gormlogger.Warn:
		event = l.log.Warn().Bool("slow", true)
	case l.level >= gormlogger.Info:
		event = l.log.Debug()
	default:
		return
	}

	sql, rows := fc()
	event.Str("sql", sql).Int64("rows", rows).Dur("elapsed", elapsed).Msg("gorm")
}
