// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger provides the process-wide structured logger used for
// diagnostics. Per-document status lines are written by the stages
// themselves; this logger carries debug detail, warnings, and errors.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	current *slog.Logger
	mu      sync.RWMutex
)

func init() {
	current = newLogger(Options{})
}

// Options configures the logger.
type Options struct {
	Level  string    // "debug", "info", "warn", or "error" (default: info)
	Quiet  bool      // only errors; overrides Level
	JSON   bool      // JSON records instead of text
	Output io.Writer // destination (default: stderr)
}

// Init replaces the process logger. It fails only for an unknown level.
func Init(opts Options) error {
	if _, err := ParseLevel(opts.Level); err != nil {
		return err
	}
	l := newLogger(opts)

	mu.Lock()
	defer mu.Unlock()
	current = l
	return nil
}

// ParseLevel maps a level name to a slog level. The empty string is info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

func newLogger(opts Options) *slog.Logger {
	level, _ := ParseLevel(opts.Level)
	if opts.Quiet {
		level = slog.LevelError
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(out, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(out, handlerOpts))
}

// L returns the current logger.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// With returns the current logger with the given attributes.
func With(args ...any) *slog.Logger {
	return L().With(args...)
}

func Debug(msg string, args ...any) { L().Debug(msg, args...) }

func Info(msg string, args ...any) { L().Info(msg, args...) }

func Warn(msg string, args ...any) { L().Warn(msg, args...) }

func Error(msg string, args ...any) { L().Error(msg, args...) }

// DebugContext logs a debug message with ctx.
func DebugContext(ctx context.Context, msg string, args ...any) {
	L().DebugContext(ctx, msg, args...)
}

// WarnContext logs a warning with ctx.
func WarnContext(ctx context.Context, msg string, args ...any) {
	L().WarnContext(ctx, msg, args...)
}
