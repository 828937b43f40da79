// Package logging defines the application's logging capability and the
// decorator that stamps log lines with the ambient request identifier.
package logging

import (
	"context"
	"log/slog"
	"os"
)

// Logger is the three-level logging capability used throughout the service.
// The context argument carries the ambient request scope, if any; callers
// outside a request scope pass whatever context they have.
type Logger interface {
	Info(ctx context.Context, text string)
	Debug(ctx context.Context, text string)
	Error(ctx context.Context, text string, err error)
}

// Sinks holds the backend functions a Logger forwards to, one per level.
// The backend's transport (console, file, network) is its own business.
type Sinks struct {
	Info  func(text string)
	Debug func(text string)
	Error func(text string, err error)
}

type sinkLogger struct {
	sinks Sinks
}

// New creates a Logger that forwards each call to the matching sink.
// Nil sinks are skipped.
func New(sinks Sinks) Logger {
	return &sinkLogger{sinks: sinks}
}

func (l *sinkLogger) Info(_ context.Context, text string) {
	if l.sinks.Info != nil {
		l.sinks.Info(text)
	}
}

func (l *sinkLogger) Debug(_ context.Context, text string) {
	if l.sinks.Debug != nil {
		l.sinks.Debug(text)
	}
}

func (l *sinkLogger) Error(_ context.Context, text string, err error) {
	if l.sinks.Error != nil {
		l.sinks.Error(text, err)
	}
}

// NewSlog creates a slog.Logger with the specified level and format.
func NewSlog(level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if format == "text" || format == "dev" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

// SlogSinks adapts a slog.Logger into per-level sink functions.
func SlogSinks(l *slog.Logger) Sinks {
	return Sinks{
		Info:  func(text string) { l.Info(text) },
		Debug: func(text string) { l.Debug(text) },
		Error: func(text string, err error) {
			if err != nil {
				l.Error(text, "error", err.Error())
				return
			}
			l.Error(text)
		},
	}
}

// Tee fans each log call out to both sink sets, a first then b.
func Tee(a, b Sinks) Sinks {
	return Sinks{
		Info: func(text string) {
			if a.Info != nil {
				a.Info(text)
			}
			if b.Info != nil {
				b.Info(text)
			}
		},
		Debug: func(text string) {
			if a.Debug != nil {
				a.Debug(text)
			}
			if b.Debug != nil {
				b.Debug(text)
			}
		},
		Error: func(text string, err error) {
			if a.Error != nil {
				a.Error(text, err)
			}
			if b.Error != nil {
				b.Error(text, err)
			}
		},
	}
}
