package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evently/ticketing-backend/internal/repository"
)

// EventHandler serves the event catalog: listing, lookup, creation and
// cascading deletion.
type EventHandler struct {
	EventRepo   *repository.EventRepo
	SeatRepo    *repository.SeatRepo
	BookingRepo *repository.BookingRepo
}

// NewEventHandler constructs an EventHandler. All dependencies must be
// non-nil.
func NewEventHandler(eventRepo *repository.EventRepo, seatRepo *repository.SeatRepo, bookingRepo *repository.BookingRepo) *EventHandler {
	if eventRepo == nil || seatRepo == nil || bookingRepo == nil {
		panic("nil repository passed to NewEventHandler")
	}
	return &EventHandler{EventRepo: eventRepo, SeatRepo: seatRepo, BookingRepo: bookingRepo}
}

// List handles GET /events. With a ?search= term it filters events whose
// name or venue contains the term case-insensitively; otherwise it returns
// the whole catalog as a JSON array.
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.EventRepo.List(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, events)
}

// Get handles GET /events/:id. Responds 404 when the id does not exist.
func (h *EventHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	event, err := h.EventRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, event)
}

// createEventRequest is the POST /admin/events payload. TotalCapacity is a
// pointer so an absent field can be told apart from an explicit zero.
type createEventRequest struct {
	Name          string `json:"name"`
	Venue         string `json:"venue"`
	StartTime     string `json:"start_time"`
	TotalCapacity *int   `json:"total_capacity"`
}

// Create handles POST /admin/events. Every field is required; missing or
// malformed fields produce 400, not the generic 500 the legacy service
// returned. Responds 201 with the assigned id.
func (h *EventHandler) Create(c echo.Context) error {
	var body createEventRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Venue = strings.TrimSpace(body.Venue)
	if body.Name == "" || body.Venue == "" || body.StartTime == "" || body.TotalCapacity == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, venue, start_time and total_capacity are required"})
	}
	if *body.TotalCapacity < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_capacity must not be negative"})
	}
	startTime, err := parseStartTime(body.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be RFC3339 or 'YYYY-MM-DD HH:MM:SS'"})
	}

	event := &repository.Event{
		Name:          body.Name,
		Venue:         body.Venue,
		StartTime:     startTime,
		TotalCapacity: *body.TotalCapacity,
	}
	if err := h.EventRepo.Create(c.Request().Context(), event); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create event"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "event created successfully",
		"id":      event.ID,
	})
}

// Delete handles DELETE /admin/events/:id. Bookings, seats and the event
// row are removed in one transaction, in that order; if any step fails none
// of the deletions persist. Deleting an event that does not exist succeeds,
// so the operation is idempotent.
func (h *EventHandler) Delete(c echo.Context) error {
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

	if err := h.BookingRepo.DeleteByEventTx(ctx, tx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete bookings"})
	}
	if err := h.SeatRepo.DeleteByEventTx(ctx, tx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete seats"})
	}
	if err := h.EventRepo.DeleteTx(ctx, tx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete event"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{"message": "event and related data deleted successfully"})
}

// parseStartTime accepts RFC3339 and the bare DATETIME layout the admin UI
// has historically sent. Times are stored in UTC.
func parseStartTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
