package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestNewWithConfig(t *testing.T) {
	l, err := NewWithConfig(Config{Level: "bogus", Format: "json", OutputPath: "stderr", ServiceName: "svc"})
	require.NoError(t, err)

	// unknown levels fall back to info
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))

	cli, err := NewCLI("debug")
	require.NoError(t, err)
	assert.True(t, cli.Core().Enabled(zapcore.DebugLevel))
}

func TestWithContext(t *testing.T) {
	l, logs := observed()

	WithContext(context.Background(), l).Info("bare")
	ctx := ContextWithBackend(ContextWithRequestID(context.Background(), "req-1"), "postgres")
	WithContext(ctx, l).Info("tagged")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Empty(t, entries[0].Context)

	fields := entries[1].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "postgres", fields["backend"])
	assert.Equal(t, "req-1", GetRequestID(ctx))
}

func TestGormLogger_Trace(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		elapsed time.Duration
		err     error
		want    string
		wantLvl zapcore.Level
	}{
		{"failure", "warn", time.Millisecond, errors.New("relation missing"), "query failed", zapcore.ErrorLevel},
		{"slow", "warn", 2 * time.Second, nil, "slow query", zapcore.WarnLevel},
		{"traced at debug", "debug", time.Millisecond, nil, "query", zapcore.DebugLevel},
		{"fast at warn", "warn", time.Millisecond, nil, "", 0},
		{"not found is not an error", "warn", time.Millisecond, gorm.ErrRecordNotFound, "", 0},
		{"silent", "silent", time.Millisecond, errors.New("boom"), "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, logs := observed()
			gl := NewGormLogger(l, 1, tt.level)

			called := false
			gl.Trace(context.Background(), time.Now().Add(-tt.elapsed), func() (string, int64) {
				called = true
				return "SELECT * FROM transactions", 3
			}, tt.err)

			if tt.want == "" {
				assert.Zero(t, logs.Len())
				assert.False(t, called)
				return
			}
			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.want, entry.Message)
			assert.Equal(t, tt.wantLvl, entry.Level)
			assert.Equal(t, "sql", entry.ContextMap()["db"])
			assert.Equal(t, int64(3), entry.ContextMap()["rows"])
		})
	}
}

func TestGormLogger_LogModeCopies(t *testing.T) {
	l, _ := observed()
	gl := NewGormLogger(l, 0, "warn")

	quiet := gl.LogMode(gormlogger.Silent).(*GormLogger)
	assert.Equal(t, gormlogger.Silent, quiet.level)
	assert.Equal(t, gormlogger.Warn, gl.level)
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", maxStatementLength+10)
	assert.Len(t, truncate(long), maxStatementLength+3)
	assert.Equal(t, "short", truncate("short"))
}

func TestMongoMonitor(t *testing.T) {
	l, logs := observed()
	mon := NewMongoMonitor(l, 0.5).CommandMonitor()
	ctx := context.Background()

	find, err := bson.Marshal(bson.D{{Key: "find", Value: "transactions"}})
	require.NoError(t, err)

	mon.Started(ctx, &event.CommandStartedEvent{Command: find, CommandName: "hello", RequestID: 1})
	mon.Succeeded(ctx, &event.CommandSucceededEvent{CommandFinishedEvent: event.CommandFinishedEvent{CommandName: "hello", RequestID: 1}})
	assert.Zero(t, logs.Len(), "heartbeats are not logged")

	mon.Started(ctx, &event.CommandStartedEvent{Command: find, CommandName: "find", RequestID: 2})
	mon.Succeeded(ctx, &event.CommandSucceededEvent{CommandFinishedEvent: event.CommandFinishedEvent{
		CommandName: "find", RequestID: 2, Duration: time.Second,
	}})

	mon.Started(ctx, &event.CommandStartedEvent{Command: find, CommandName: "aggregate", RequestID: 3})
	mon.Failed(ctx, &event.CommandFailedEvent{
		CommandFinishedEvent: event.CommandFinishedEvent{CommandName: "aggregate", RequestID: 3},
		Failure:              "operation exceeded time limit",
	})

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "slow query", entries[0].Message)
	assert.Equal(t, "mongo", entries[0].ContextMap()["db"])
	assert.Equal(t, "find", entries[0].ContextMap()["command_name"])
	assert.Contains(t, entries[0].ContextMap()["statement"], "transactions")

	assert.Equal(t, "query failed", entries[1].Message)
	assert.Equal(t, "operation exceeded time limit", entries[1].ContextMap()["error"])
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		seen = GetRequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	t.Run("reuses incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "bench-42")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "bench-42", seen)
		assert.Equal(t, "bench-42", w.Header().Get(RequestIDHeader))
	})

	t.Run("generates when missing or oversized", func(t *testing.T) {
		for _, incoming := range []string{"", strings.Repeat("a", 65)} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if incoming != "" {
				req.Header.Set(RequestIDHeader, incoming)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Len(t, seen, 36)
			assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
		}
	})
}
