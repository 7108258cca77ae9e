package pooldb

import (
	"context"
	"fmt"
	"log/slog"
)

// Logger is the type pooldb uses to report errors it swallows: failed
// rollbacks in the pool engine and failed auto-commit resets in the
// transaction layer. Successful borrow, return, reclaim and ping events
// are not logged. The base log.Logger type satisfies it, but adapters are
// easy to write for other logging packages.
type Logger interface {
	Printf(format string, v ...interface{})
}

// SlogLogger implements Logger using log/slog.
type SlogLogger struct {
	logger *slog.Logger
	attrs  []slog.Attr
}

// NewSlogLogger creates a SlogLogger with optional attributes attached to
// every trace line. A nil logger falls back to slog.Default().
func NewSlogLogger(logger *slog.Logger, attrs ...slog.Attr) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger, attrs: attrs}
}

// Printf implements Logger using structured logging.
func (l *SlogLogger) Printf(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	attrs := append(l.attrs, slog.String("event", msg))
	l.logger.LogAttrs(context.Background(), slog.LevelInfo, "pool_trace", attrs...)
}

// noopLogger discards every trace line; it is the default when no Logger
// is configured so call sites never need a nil check.
type noopLogger struct{}

func (noopLogger) Printf(string, ...interface{}) {}

// NoopLogger is the default Logger used when none is configured.
var NoopLogger Logger = noopLogger{}
