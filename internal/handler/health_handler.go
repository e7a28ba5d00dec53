// internal/handler/health_handler.go
package handler

import (
	"context"
	"net/http"
	"time"
)

const HelloMessage = "Hello, GraphQL!"

// HealthHandler answers liveness probes. Ping checks the backing store.
type HealthHandler struct {
	Ping func(ctx context.Context) error
}

// Hello is the probe the heartbeat job calls.
func (h *HealthHandler) Hello(w http.ResponseWriter, r *http.Request) {
	WriteData(w, http.StatusOK, "hello", HelloMessage)
}

// Healthz reports store reachability.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if h.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
