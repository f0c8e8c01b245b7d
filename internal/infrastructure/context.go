package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// GenerateRunID creates a new unique identifier for a pipeline run.
// Every invocation of the pipeline gets exactly one run ID, shared by
// the primary attempt and any repaired retry.
func GenerateRunID() string {
	return "run_" + uuid.New().String()
}

// EnsureRunID returns a context guaranteed to carry a run ID,
// generating one if absent.
func EnsureRunID(ctx context.Context) context.Context {
	if GetRunID(ctx) == "" {
		return WithRunID(ctx, GenerateRunID())
	}
	return ctx
}

// LoggerWithContext returns a logger with run context attached
func LoggerWithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = GetLogger()
	}

	if runID := GetRunID(ctx); runID != "" {
		logger = logger.With(slog.String("run_id", runID))
	}

	return logger
}

// InfoContext logs at info level with context
func InfoContext(ctx context.Context, msg string, args ...any) {
	LoggerWithContext(ctx, nil).InfoContext(ctx, msg, args...)
}

// ErrorContext logs at error level with context
func ErrorContext(ctx context.Context, msg string, args ...any) {
	LoggerWithContext(ctx, nil).ErrorContext(ctx, msg, args...)
}

// WarnContext logs at warn level with context
func WarnContext(ctx context.Context, msg string, args ...any) {
	LoggerWithContext(ctx, nil).WarnContext(ctx, msg, args...)
}

// DebugContext logs at debug level with context
func DebugContext(ctx context.Context, msg string, args ...any) {
	LoggerWithContext(ctx, nil).DebugContext(ctx, msg, args...)
}

// WithComponent returns a logger tagged with a component name
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = GetLogger()
	}
	return logger.With(slog.String("component", component))
}

// WithError returns a logger with error details attached
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if logger == nil {
		logger = GetLogger()
	}
	if err == nil {
		return logger
	}
	return logger.With(slog.String("error", err.Error()))
}

// WithFields returns a logger with multiple fields attached
func WithFields(logger *slog.Logger, fields map[string]any) *slog.Logger {
	if logger == nil {
		logger = GetLogger()
	}

	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}

	return logger.With(args...)
}
