package antnav

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with navigation-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithAlgorithm adds an algorithm field to the logger.
func (l *Logger) WithAlgorithm(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("algorithm", name),
	}
}

// WithRoute adds a route field to the logger.
func (l *Logger) WithRoute(route string) *Logger {
	return &Logger{
		Logger: l.Logger.With("route", route),
	}
}

// LogTrain logs a training step. snapshots is the memory size afterwards.
func (l *Logger) LogTrain(ctx context.Context, snapshots int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "train failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "train completed",
			"snapshots", snapshots,
		)
	}
}

// LogTest logs a familiarity query.
func (l *Logger) LogTest(ctx context.Context, difference float32, err error) {
	if err != nil {
		l.ErrorContext(ctx, "test failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "test completed",
			"difference", difference,
		)
	}
}

// LogHeading logs a heading estimate.
func (l *Logger) LogHeading(ctx context.Context, heading float64, snapshot int, score float32, err error) {
	if err != nil {
		l.ErrorContext(ctx, "heading estimate failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "heading estimated",
			"heading", heading,
			"snapshot", snapshot,
			"score", score,
		)
	}
}

// LogClear logs a memory reset.
func (l *Logger) LogClear(ctx context.Context) {
	l.InfoContext(ctx, "memory cleared")
}

// LogRoute logs a route being trained or loaded.
func (l *Logger) LogRoute(ctx context.Context, route string, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "route training failed",
			"route", route,
			"trained", count,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "route trained",
			"route", route,
			"snapshots", count,
		)
	}
}
