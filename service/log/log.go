package log

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKeyT struct{}

var ctxKey ctxKeyT

var defaultLogger *zap.Logger

func init() {
	cfg := zap.NewProductionConfig()
	if os.Getenv("DEBUG") != "" {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	defaultLogger = logger
}

// Logger returns the logger attached to the context, or the process default.
func Logger(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(ctxKey).(*zap.Logger); ok {
		return logger
	}
	return defaultLogger
}

// With returns a copy of ctx carrying the given logger.
func With(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey, logger)
}

// WithFields returns a copy of ctx whose logger carries the given fields.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	return With(ctx, Logger(ctx).With(fields...))
}

// Fatal logs the message with the process default logger and exits.
func Fatal(msg string, fields ...zap.Field) {
	defaultLogger.Fatal(msg, fields...)
}
