package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/evently/ticketing-backend/internal/repository"
)

// SeatHandler serves seat inventory: listing availability and bulk
// generation of numbered seats for an event.
type SeatHandler struct {
	EventRepo *repository.EventRepo
	SeatRepo  *repository.SeatRepo
}

// NewSeatHandler constructs a SeatHandler. All dependencies must be non-nil.
func NewSeatHandler(eventRepo *repository.EventRepo, seatRepo *repository.SeatRepo) *SeatHandler {
	if eventRepo == nil || seatRepo == nil {
		panic("nil repository passed to NewSeatHandler")
	}
	return &SeatHandler{EventRepo: eventRepo, SeatRepo: seatRepo}
}

// ListByEvent handles GET /events/:id/seats. Seats come back ordered by
// their text label, so "10" precedes "2"; clients that want numeric order
// sort on their side. An event without generated seats (or an unknown
// event id) yields an empty array.
func (h *SeatHandler) ListByEvent(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	seats, err := h.SeatRepo.ListByEvent(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, seats)
}

// Generate handles POST /admin/events/:id/generate-seats. It creates one
// seat row per integer 1..total_capacity, all available, inside one
// transaction. Generation runs at most once per event: a count pre-check
// answers 409 for the common case, and the unique key on
// (event_id, seat_number) catches the concurrent duplicate call the
// pre-check cannot see.
func (h *SeatHandler) Generate(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx := c.Request().Context()
	tx, err := h.EventRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	capacity, err := h.EventRepo.CapacityTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	existing, err := h.SeatRepo.CountByEventTx(ctx, tx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if existing > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "seats already generated for this event"})
	}
	if err := h.SeatRepo.GenerateTx(ctx, tx, id, capacity); err != nil {
		if errors.Is(err, repository.ErrSeatsAlreadyGenerated) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "seats already generated for this event"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate seats"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{
		"message": fmt.Sprintf("successfully generated %d seats for event %d", capacity, id),
		"count":   capacity,
	})
}
