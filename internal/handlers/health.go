package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger reports the reachability of each backing store
type Pinger interface {
	Ping(ctx context.Context) map[string]error
}

// HealthHandler serves liveness and readiness
type HealthHandler struct {
	pinger Pinger
}

// NewHealthHandler creates a HealthHandler
func NewHealthHandler(pinger Pinger) *HealthHandler {
	return &HealthHandler{pinger: pinger}
}

// HealthCheck reports each dependency; 503 when any is down
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := echo.Map{}
	for name, err := range h.pinger.Ping(ctx) {
		if err != nil {
			status = http.StatusServiceUnavailable
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "degraded"
	}
	return c.JSON(status, echo.Map{
		"status":  state,
		"service": "nano-social",
		"checks":  checks,
	})
}
