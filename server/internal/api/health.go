package api

import (
	"net/http"
	"time"

	"github.com/mycelian/mycelian-identities/server/internal/api/respond"
)

// HealthHandler reports the cached service health.
type HealthHandler struct {
	isHealthy func() bool
}

// NewHealthHandler creates a health handler backed by isHealthy.
func NewHealthHandler(isHealthy func() bool) *HealthHandler {
	if isHealthy == nil {
		isHealthy = func() bool { return true }
	}
	return &HealthHandler{isHealthy: isHealthy}
}

// CheckHealth handles GET /api/health.
// Returns 200 when healthy and 503 otherwise.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "healthy", http.StatusOK
	if !h.isHealthy() {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	respond.WriteJSON(w, code, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
