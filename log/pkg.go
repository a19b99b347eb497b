package log

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// DefaultContextProvider supplies the context for logging calls that do not
// take one.
//
//nolint:gochecknoglobals
var DefaultContextProvider = context.TODO

//nolint:gochecknoglobals
var (
	defaultMu  sync.RWMutex
	defaultLog = Make(os.Stderr)
)

// Default returns the package-level logger.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()

	return defaultLog
}

// Config applies opts to the package-level logger.
func Config(opts ...Option) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultLog = defaultLog.Wrap(opts...)
}

// SetDefault replaces the package-level logger and returns the previous one.
func SetDefault(l Logger) Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	prev := defaultLog
	defaultLog = l

	return prev
}

// With returns the package-level logger with attrs added.
func With(attrs ...slog.Attr) Logger { return Default().With(attrs...) }

// The package-level functions add one frame (this file) between the caller
// and Logger.log.

func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().TraceContext(withCallerSkip(ctx, 1), msg, attrs...)
}

func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().DebugContext(withCallerSkip(ctx, 1), msg, attrs...)
}

func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().InfoContext(withCallerSkip(ctx, 1), msg, attrs...)
}

func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().WarnContext(withCallerSkip(ctx, 1), msg, attrs...)
}

func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().ErrorContext(withCallerSkip(ctx, 1), msg, attrs...)
}

func Trace(msg string, attrs ...slog.Attr) {
	Default().TraceContext(withCallerSkip(DefaultContextProvider(), 1), msg, attrs...)
}

func Debug(msg string, attrs ...slog.Attr) {
	Default().DebugContext(withCallerSkip(DefaultContextProvider(), 1), msg, attrs...)
}

func Info(msg string, attrs ...slog.Attr) {
	Default().InfoContext(withCallerSkip(DefaultContextProvider(), 1), msg, attrs...)
}

func Warn(msg string, attrs ...slog.Attr) {
	Default().WarnContext(withCallerSkip(DefaultContextProvider(), 1), msg, attrs...)
}

func Error(msg string, attrs ...slog.Attr) {
	Default().ErrorContext(withCallerSkip(DefaultContextProvider(), 1), msg, attrs...)
}
