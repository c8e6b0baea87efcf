// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// Version is the running build version. Overridden at link time via
// -ldflags "-X github.com/oarbit/rigger/internal/adapters/http/api.Version=...".
var Version = "dev"

// HealthHandler handles health check requests.
type HealthHandler struct{}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// healthResponse reports process liveness.
type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// HandleHealth handles GET /healthz requests. Metrics live on /metrics; this
// endpoint only answers liveness probes.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Service: "rigger",
		Version: Version,
	})
}
