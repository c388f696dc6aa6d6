package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/evently/ticketing-backend/internal/repository"
)

// topEventsLimit caps the most-popular-events ranking.
const topEventsLimit = 5

// AnalyticsHandler serves aggregate booking statistics for the admin
// surface.
type AnalyticsHandler struct {
	AnalyticsRepo *repository.AnalyticsRepo
}

// NewAnalyticsHandler constructs an AnalyticsHandler.
func NewAnalyticsHandler(analyticsRepo *repository.AnalyticsRepo) *AnalyticsHandler {
	if analyticsRepo == nil {
		panic("nil repository passed to NewAnalyticsHandler")
	}
	return &AnalyticsHandler{AnalyticsRepo: analyticsRepo}
}

// Get handles GET /admin/analytics: the total booking count plus the five
// most-booked events, ties broken by event id so the ranking is stable.
func (h *AnalyticsHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	total, err := h.AnalyticsRepo.TotalBookings(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	top, err := h.AnalyticsRepo.TopEvents(ctx, topEventsLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_bookings":      total,
		"most_popular_events": top,
	})
}
