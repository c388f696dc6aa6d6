package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports service liveness. The check pings the database so a
// load balancer stops routing to an instance that lost its connection pool.
type HealthHandler struct {
	DB *sql.DB
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	if db == nil {
		panic("nil database passed to NewHealthHandler")
	}
	return &HealthHandler{DB: db}
}

// Health handles GET /healthz. Returns plain "ok" when the database
// answers a ping within two seconds, 503 otherwise.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "database unavailable"})
	}
	return c.String(http.StatusOK, "ok")
}
