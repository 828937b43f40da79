package logging

import (
	"context"

	"github.com/reqctx/pingd/internal/requestctx"
)

// Supplier reports the ambient request context for a call, if any.
type Supplier func(ctx context.Context) (requestctx.RequestContext, bool)

type requestIDLogger struct {
	next    Logger
	current Supplier
}

// WithRequestID decorates next so that every message produced inside a
// request scope is prefixed with "Request id: <id> ". Outside any scope the
// message passes through unmodified. A nil supplier defaults to
// requestctx.FromContext.
func WithRequestID(next Logger, current Supplier) Logger {
	if current == nil {
		current = requestctx.FromContext
	}
	return &requestIDLogger{next: next, current: current}
}

func (l *requestIDLogger) Info(ctx context.Context, text string) {
	l.next.Info(ctx, l.frame(ctx, text))
}

func (l *requestIDLogger) Debug(ctx context.Context, text string) {
	l.next.Debug(ctx, l.frame(ctx, text))
}

func (l *requestIDLogger) Error(ctx context.Context, text string, err error) {
	l.next.Error(ctx, l.frame(ctx, text), err)
}

func (l *requestIDLogger) frame(ctx context.Context, text string) string {
	if rc, ok := l.current(ctx); ok {
		return "Request id: " + rc.ID() + " " + text
	}
	return text
}
