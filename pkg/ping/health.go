package ping

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// HealthCheck reports process liveness and readiness. Readiness is flipped
// on once the listener is up and off again during shutdown.
type HealthCheck struct {
	isReady *atomic.Bool
}

// NewHealthCheck creates a HealthCheck that starts out not ready
func NewHealthCheck() *HealthCheck {
	ready := &atomic.Bool{}
	ready.Store(false)
	return &HealthCheck{
		isReady: ready,
	}
}

// HealthHandler reports liveness regardless of readiness
func (h *HealthCheck) HealthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": "pingd",
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ReadyHandler reports whether the service accepts traffic
func (h *HealthCheck) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	if !h.isReady.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	response := map[string]string{
		"status":  "ready",
		"service": "pingd",
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// SetReady marks the service as ready to receive traffic
func (h *HealthCheck) SetReady(ready bool) {
	h.isReady.Store(ready)
}
