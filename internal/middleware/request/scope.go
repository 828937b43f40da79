package request

import (
	"net/http"

	"github.com/reqctx/pingd/internal/requestctx"
)

// RequestIDHeader is the header used for request ID propagation
const RequestIDHeader = "X-Request-ID"

// WithRequestScope establishes a fresh request scope before any application
// logic runs: it builds a RequestContext (honoring an inbound X-Request-ID,
// generating an identifier otherwise), stores it in the request context, and
// echoes the identifier on the response headers. Everything downstream reads
// the ambient context through requestctx.FromContext.
func WithRequestScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rc requestctx.RequestContext
		if id := r.Header.Get(RequestIDHeader); id != "" {
			rc = requestctx.NewWithID(id)
		} else {
			rc = requestctx.New()
		}

		ctx := requestctx.With(r.Context(), rc)
		w.Header().Set(RequestIDHeader, rc.ID())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
