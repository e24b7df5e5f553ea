package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthCheck checks one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler reports process and dependency health.
type HealthHandler struct {
	env    string
	checks map[string]HealthCheck
	start  time.Time
}

// NewHealthHandler creates a health handler over named checks.
func NewHealthHandler(env string, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{env: env, checks: checks, start: time.Now()}
}

// HealthResponse is the health report.
type HealthResponse struct {
	Status      string            `json:"status"`
	Environment string            `json:"environment"`
	Uptime      string            `json:"uptime"`
	Checks      map[string]string `json:"checks"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	res := HealthResponse{
		Status:      "OK",
		Environment: h.env,
		Uptime:      time.Since(h.start).Round(time.Second).String(),
		Checks:      make(map[string]string, len(h.checks)),
		Timestamp:   time.Now().UTC(),
	}
	status := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			res.Checks[name] = err.Error()
			// redis is optional; the database is not
			if name == "database" {
				res.Status = "DEGRADED"
				status = http.StatusServiceUnavailable
			}
			continue
		}
		res.Checks[name] = "ok"
	}
	return c.JSON(status, res)
}
