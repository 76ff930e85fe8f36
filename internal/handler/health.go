// Package handler contains the echo HTTP handlers.  Each handler
// struct holds the repositories and services it needs; request DTOs
// are anonymous structs local to the method that binds them.
package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler answers liveness probes.
type HealthHandler struct {
	DB *sql.DB
}

// Healthz handles GET /healthz.  It pings the database so the probe
// reflects actual serving capability, not just process liveness.
func (h *HealthHandler) Healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "error": "database unreachable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
