// Package logging wraps log/slog with the field names and operation-level
// helpers used across the clustering forest.
package logging

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with hkann-specific context.
type Logger struct {
	*slog.Logger
}

// New creates a new Logger with the given handler. If handler is nil, a
// text handler writing to stderr at Info level is used.
func New(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewText creates a Logger that writes human-readable text logs at level.
func NewText(level slog.Level) *Logger {
	return New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewJSON creates a Logger that writes JSON logs at level.
func NewJSON(level slog.Level) *Logger {
	return New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Noop returns a Logger that discards all output.
func Noop() *Logger {
	return New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.Level(1000)}))
}

// LogBuild logs a full forest build.
func (l *Logger) LogBuild(ctx context.Context, trees, points int, dur int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed", "trees", trees, "points", points, "error", err)
		return
	}
	l.InfoContext(ctx, "build completed", "trees", trees, "points", points, "duration_ms", dur)
}

// LogInsert logs an incremental insert (with or without a triggered rebuild).
func (l *Logger) LogInsert(ctx context.Context, added int, rebuilt bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "insert failed", "added", added, "error", err)
		return
	}
	l.DebugContext(ctx, "insert completed", "added", added, "rebuilt", rebuilt)
}

// LogSearch logs a single query.
func (l *Logger) LogSearch(ctx context.Context, checksBudget, checksUsed int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed", "checks_budget", checksBudget, "error", err)
		return
	}
	l.DebugContext(ctx, "search completed", "checks_budget", checksBudget, "checks_used", checksUsed)
}

// LogRebuild logs a forced full rebuild triggered by the amortized threshold.
func (l *Logger) LogRebuild(ctx context.Context, oldSize, newSize int) {
	l.InfoContext(ctx, "rebuild triggered", "old_size", oldSize, "new_size", newSize)
}
