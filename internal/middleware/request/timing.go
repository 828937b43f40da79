package request

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/reqctx/pingd/internal/logging"
	"github.com/reqctx/pingd/internal/metrics"
)

// WithTiming measures the wall-clock duration of each request and logs
// "Request <path-and-query> took <N> ms" through the given logger. Chain it
// after WithRequestScope so the line is prefixed with the request ID.
//
// The line is emitted from a defer: a panicking handler still produces its
// duration log, and the panic propagates to the server's recovery layer.
func WithTiming(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)

			defer func() {
				elapsed := time.Since(start)
				log.Info(r.Context(), fmt.Sprintf("Request %s took %d ms",
					r.URL.RequestURI(), elapsed.Milliseconds()))
				metrics.RecordRequest(strconv.Itoa(sw.Status()), r.URL.Path, elapsed)
			}()

			next.ServeHTTP(sw, r)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code
type statusWriter struct {
	http.ResponseWriter
	status int
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{
		ResponseWriter: w,
		status:         http.StatusOK, // Default to 200 OK
	}
}

// WriteHeader captures the status code and passes it through
func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Status returns the captured status code
func (w *statusWriter) Status() int {
	return w.status
}
