package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is anything whose connectivity can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check endpoints
type HealthHandlers struct {
	db      Pinger
	cache   Pinger
	timeout time.Duration
}

// NewHealthHandlers creates a new health handlers instance. cache may be nil
// when redis is not configured.
func NewHealthHandlers(db Pinger, cache Pinger) *HealthHandlers {
	return &HealthHandlers{db: db, cache: cache, timeout: 2 * time.Second}
}

// LivenessCheck determines if the application is running (basic liveness probe)
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck reports whether the datastore and cache answer. The cache
// is optional for ingestion, so only the datastore decides readiness.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	services := map[string]string{"database": "healthy"}
	ready := true

	if err := h.db.Ping(ctx); err != nil {
		services["database"] = "unhealthy"
		ready = false
	}

	if h.cache != nil {
		services["redis"] = "healthy"
		if err := h.cache.Ping(ctx); err != nil {
			services["redis"] = "degraded"
		}
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	return c.JSON(code, map[string]interface{}{
		"status":    status,
		"services":  services,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
