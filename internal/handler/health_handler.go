package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Readiness reports whether the extraction backend can serve requests.
type Readiness interface {
	Ready() error
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	readiness Readiness
}

// NewHealthHandler creates a new HealthHandler. A nil readiness probe means
// the service is always ready once it is up.
func NewHealthHandler(readiness Readiness) *HealthHandler {
	return &HealthHandler{readiness: readiness}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.readiness != nil {
		if err := h.readiness.Ready(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ReadinessFunc adapts a plain check to Readiness.
type ReadinessFunc func() error

// Ready calls f.
func (f ReadinessFunc) Ready() error { return f() }
