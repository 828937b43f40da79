// Package ping contains the application-level HTTP handlers. The ping
// handler exists to demonstrate request-scoped logging: both of its log
// lines, written on either side of a simulated suspension, carry the same
// request identifier without the handler ever touching it.
package ping

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/reqctx/pingd/internal/logging"
	"github.com/reqctx/pingd/internal/metrics"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Status    string      `json:"status"`
	Message   string      `json:"message"`
	ErrorType string      `json:"error_type"`
	Details   interface{} `json:"details,omitempty"`
}

// Config holds the configuration for the ping handler
type Config struct {
	Log logging.Logger
	// Delay simulates downstream latency between the start and end log
	// lines, so the end line demonstrably runs in a later continuation.
	Delay time.Duration
}

// Handler serves GET /api/ping
type Handler struct {
	log   logging.Logger
	delay time.Duration
}

// NewHandler creates a new ping handler
func NewHandler(cfg Config) *Handler {
	return &Handler{
		log:   cfg.Log,
		delay: cfg.Delay,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		metrics.RecordError("method_not_allowed")

		response := ErrorResponse{
			Status:    "error",
			Message:   "Method not allowed, only GET is supported",
			ErrorType: "validation",
			Details: map[string]interface{}{
				"method": r.Method,
				"path":   r.URL.Path,
			},
		}

		h.sendJSONResponse(w, http.StatusMethodNotAllowed, response)
		return
	}

	ctx := r.Context()

	h.log.Info(ctx, "Ping start")

	if h.delay > 0 {
		timer := time.NewTimer(h.delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			// Hosting layer cancelled the request; propagate, don't swallow.
			metrics.RecordError("request_cancelled")
			h.log.Error(ctx, "Ping aborted", ctx.Err())
			return
		}
	}

	h.log.Info(ctx, "Ping end")

	h.sendJSONResponse(w, http.StatusOK, "Pong")
}

func (h *Handler) sendJSONResponse(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
