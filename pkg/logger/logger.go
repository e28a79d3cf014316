package logger

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config represents logger configuration
type Config struct {
	Level            string  // debug, info, warn, error
	Format           string  // json, console
	OutputPath       string  // stdout, stderr, or file path
	SlowQuerySeconds float64 // threshold for slow SQL queries and Mongo commands
	EnableSampling   bool
	ServiceName      string
	ServiceVersion   string
	Environment      string
}

// NewWithConfig builds the service logger. Every entry carries the service,
// version and environment fields.
func NewWithConfig(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	core := zapcore.NewCore(newEncoder(cfg), newSink(cfg.OutputPath), level)

	// listing requests under benchmark load would otherwise flood the sink
	if cfg.EnableSampling {
		core = zapcore.NewSamplerWithOptions(core, time.Second, 100, 10)
	}

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).With(
		zap.String("service", cfg.ServiceName),
		zap.String("version", cfg.ServiceVersion),
		zap.String("environment", cfg.Environment),
	), nil
}

// NewCLI creates a console logger on stderr for the command line tools,
// leaving stdout to tables and JSON reports.
func NewCLI(level string) (*zap.Logger, error) {
	return NewWithConfig(Config{
		Level:       level,
		Format:      "console",
		OutputPath:  "stderr",
		ServiceName: "txcompare",
		Environment: "cli",
	})
}

func newEncoder(cfg Config) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "timestamp"
	ec.MessageKey = "message"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeDuration = zapcore.MillisDurationEncoder

	if cfg.Format == "json" {
		return zapcore.NewJSONEncoder(ec)
	}
	if cfg.Environment != "production" {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(ec)
}

// newSink writes to stdout, stderr or a rotated file
func newSink(outputPath string) zapcore.WriteSyncer {
	switch outputPath {
	case "", "stdout":
		return zapcore.Lock(os.Stdout)
	case "stderr":
		return zapcore.Lock(os.Stderr)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   outputPath,
		MaxSize:    100, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	})
}

// ContextKey is the type for context keys
type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	BackendKey   ContextKey = "backend"
)

// WithContext adds request_id and backend from ctx, when present.
func WithContext(ctx context.Context, l *zap.Logger) *zap.Logger {
	if ctx == nil {
		return l
	}

	var fields []zap.Field
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if backend, _ := ctx.Value(BackendKey).(string); backend != "" {
		fields = append(fields, zap.String("backend", backend))
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func ContextWithBackend(ctx context.Context, backend string) context.Context {
	return context.WithValue(ctx, BackendKey, backend)
}

// GetRequestID returns the request ID stored by the RequestID middleware
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
