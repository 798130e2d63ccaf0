// Package http provides HTTP handlers and middleware for the photo gateway.
// It includes feed and photo handlers, cache control endpoints, health checks,
// and various middleware components.
package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/evelyn-website/family-photo-sub000/internal/cache"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`    // Status of each check item
	Version   string                 `json:"version"`   // Application version
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`            // "healthy" or "unhealthy"
	Message string         `json:"message,omitempty"` // Optional status message
	Details map[string]any `json:"details,omitempty"` // Optional additional details
}

// HealthHandler handles health check endpoint requests. It reports cache
// occupancy for operational monitoring; the caches are in-process, so the
// checks are informational rather than connectivity probes.
type HealthHandler struct {
	Cache    *cache.Coordinator
	Payloads *cache.PayloadCache
	Version  string
}

// ServeHTTP returns the gateway health status. The gateway has no hard
// external dependency at serve time (stale cache content is an acceptable
// fallback), so it reports healthy whenever it can respond.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]CheckStatus)

	if h.Cache != nil {
		checks["metadata_cache"] = CheckStatus{
			Status: "healthy",
			Details: map[string]any{
				"photos": h.Cache.PhotoCount(),
			},
		}
	} else {
		checks["metadata_cache"] = CheckStatus{
			Status:  "unhealthy",
			Message: "not configured",
		}
	}

	if h.Payloads != nil {
		checks["payload_cache"] = CheckStatus{
			Status: "healthy",
			Details: map[string]any{
				"handles": h.Payloads.HandleCount(),
			},
		}
	} else {
		checks["payload_cache"] = CheckStatus{
			Status:  "unhealthy",
			Message: "not configured",
		}
	}

	status := "healthy"
	statusCode := http.StatusOK
	for _, c := range checks {
		if c.Status == "unhealthy" {
			status = "unhealthy"
			statusCode = http.StatusServiceUnavailable
			break
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("health: failed to encode response: %v", err)
	}
}

// LiveHandler handles liveness probe requests. It performs a lightweight
// check to verify the application is responsive.
type LiveHandler struct{}

// ServeHTTP always returns 200 OK if the application is running and able to
// respond.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		log.Printf("alive: failed to write response: %v", err)
	}
}
