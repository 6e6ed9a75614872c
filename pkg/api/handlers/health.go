// Package handlers implements the HTTP handlers served by pkg/api.
package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker is the part of device.Device the readiness probe needs.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	dev HealthChecker
}

// NewHealthHandler creates a new health handler.
//
// dev may be nil, in which case the readiness probe reports unhealthy.
func NewHealthHandler(dev HealthChecker) *HealthHandler {
	return &HealthHandler{dev: dev}
}

// Liveness handles GET /health - simple liveness probe.
//
// Returns 200 OK as long as the HTTP server is responsive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthyResponse(map[string]string{
		"service": "helocheck",
	}))
}

// DeviceHealth is the payload of a successful readiness probe.
type DeviceHealth struct {
	Latency string `json:"latency"`
}

// Readiness handles GET /health/ready by running the device health check.
//
// Returns 503 Service Unavailable if there is no device or the check fails.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.dev == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("no device configured"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := h.dev.HealthCheck(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, healthyResponse(DeviceHealth{
		Latency: time.Since(start).String(),
	}))
}
