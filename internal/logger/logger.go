// Package logger provides structured logging built on log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"
)

// Level is the minimum level of records the logger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// LoggerInterface is the logging contract used across the application.
// Key-value pairs follow the slog convention.
type LoggerInterface interface {
	Debug(ctx context.Context, msg string, kv ...any)
	Info(ctx context.Context, msg string, kv ...any)
	Warn(ctx context.Context, msg string, kv ...any)
	Error(ctx context.Context, msg string, kv ...any)
	With(kv ...any) LoggerInterface
}

// Logger implements LoggerInterface on top of slog.
type Logger struct {
	log *slog.Logger
}

var _ LoggerInterface = (*Logger)(nil)

// New creates a Logger writing text records to w at the given level.
// service is attached to every record; extra key-value pairs may be
// supplied as defaults.
func New(w io.Writer, level Level, service string, kv []any) *Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slogLevel(level),
	})

	log := slog.New(handler)
	if service != "" {
		log = log.With("service", service)
	}
	if len(kv) > 0 {
		log = log.With(kv...)
	}

	return &Logger{log: log}
}

// NewJSON creates a Logger emitting JSON records, for log aggregation.
func NewJSON(w io.Writer, level Level, service string) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slogLevel(level),
	})

	log := slog.New(handler)
	if service != "" {
		log = log.With("service", service)
	}

	return &Logger{log: log}
}

func (l *Logger) Debug(ctx context.Context, msg string, kv ...any) {
	l.log.DebugContext(ctx, msg, kv...)
}

func (l *Logger) Info(ctx context.Context, msg string, kv ...any) {
	l.log.InfoContext(ctx, msg, kv...)
}

func (l *Logger) Warn(ctx context.Context, msg string, kv ...any) {
	l.log.WarnContext(ctx, msg, kv...)
}

func (l *Logger) Error(ctx context.Context, msg string, kv ...any) {
	l.log.ErrorContext(ctx, msg, kv...)
}

// With returns a child logger with additional default key-value pairs.
func (l *Logger) With(kv ...any) LoggerInterface {
	return &Logger{log: l.log.With(kv...)}
}

// Slog exposes the underlying slog.Logger for libraries that require it.
func (l *Logger) Slog() *slog.Logger {
	return l.log
}

func slogLevel(level Level) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
