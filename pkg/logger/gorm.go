package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// maxStatementLength caps logged SQL and Mongo commands
const maxStatementLength = 1000

// statementLog is shared by the SQL and Mongo hooks so both backends log
// statements under the same messages and fields.
type statementLog struct {
	log           *zap.Logger
	kind          string // "sql" or "mongo"
	slowThreshold time.Duration
}

func (s statementLog) record(ctx context.Context, stmt string, elapsed time.Duration, err error, extra ...zap.Field) {
	fields := append([]zap.Field{
		zap.String("db", s.kind),
		zap.String("statement", truncate(stmt)),
		zap.Float64("elapsed_ms", float64(elapsed.Nanoseconds())/1e6),
	}, extra...)

	l := WithContext(ctx, s.log)
	switch {
	case err != nil:
		l.Error("query failed", append(fields, zap.Error(err))...)
	case s.slowThreshold > 0 && elapsed > s.slowThreshold:
		l.Warn("slow query", append(fields, zap.Duration("threshold", s.slowThreshold))...)
	default:
		l.Debug("query", fields...)
	}
}

// GormLogger implements gormlogger.Interface on top of zap.
type GormLogger struct {
	statementLog
	level gormlogger.LogLevel
}

// NewGormLogger maps the service log level onto GORM's levels. Statements
// are only traced at info/debug; slow ones and failures from warn upward.
func NewGormLogger(zapLogger *zap.Logger, slowQuerySeconds float64, logLevel string) *GormLogger {
	level := gormlogger.Warn
	switch logLevel {
	case "silent":
		level = gormlogger.Silent
	case "error":
		level = gormlogger.Error
	case "info", "debug":
		level = gormlogger.Info
	}

	return &GormLogger{
		statementLog: statementLog{
			log:           zapLogger.Named("gorm"),
			kind:          "sql",
			slowThreshold: secondsToDuration(slowQuerySeconds),
		},
		level: level,
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Info {
		WithContext(ctx, l.log).Sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Warn {
		WithContext(ctx, l.log).Sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Error {
		WithContext(ctx, l.log).Sugar().Errorf(msg, data...)
	}
}

// Trace logs one executed statement.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = nil
	}

	switch {
	case err != nil && l.level >= gormlogger.Error,
		err == nil && l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn,
		l.level >= gormlogger.Info:
		sql, rows := fc()
		l.record(ctx, sql, elapsed, err, zap.Int64("rows", rows))
	}
}

func truncate(s string) string {
	if len(s) > maxStatementLength {
		return s[:maxStatementLength] + "..."
	}
	return s
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
