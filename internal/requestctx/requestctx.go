// Package requestctx holds the per-request context value and the carrier
// used to propagate it through a request's call chain.
//
// The carrier rides on context.Context, which follows the logical flow of a
// request across goroutine handoffs and suspension points. Goroutine-local or
// thread-local storage must not be used here: a request's continuations may
// resume on any goroutine.
package requestctx

import (
	"context"

	"github.com/google/uuid"
)

// RequestContext identifies a single inbound request. It is created once per
// request, never mutated, and never shared between requests.
type RequestContext struct {
	id string
}

// New creates a RequestContext with a freshly generated identifier.
func New() RequestContext {
	return RequestContext{id: uuid.New().String()}
}

// NewWithID creates a RequestContext carrying the given identifier. Used when
// an upstream proxy already assigned one.
func NewWithID(id string) RequestContext {
	return RequestContext{id: id}
}

// ID returns the request identifier.
func (rc RequestContext) ID() string {
	return rc.id
}

// ctxKey is unexported so no other package can collide with the carrier slot.
type ctxKey struct{}

// With establishes rc as the ambient request context for everything causally
// downstream of the returned context.
func With(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// FromContext returns the ambient request context, if the calling code is
// executing within a flow where With was called. Outside any request scope
// (background jobs, tests, startup code) it returns ok=false; that is not an
// error condition.
func FromContext(ctx context.Context) (RequestContext, bool) {
	rc, ok := ctx.Value(ctxKey{}).(RequestContext)
	return rc, ok
}
