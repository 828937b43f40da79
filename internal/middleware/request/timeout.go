package request

import (
	"context"
	"net/http"
	"time"
)

// WithTimeout bounds each request with a context deadline. Handlers observe
// the deadline through r.Context(); the middleware itself does not write a
// response on expiry.
func WithTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
