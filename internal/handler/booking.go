package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/evently/ticketing-backend/internal/queue"
	"github.com/evently/ticketing-backend/internal/repository"
	queue_publisher "github.com/evently/ticketing-backend/internal/service"
)

// BookingHandler implements the consistency-critical booking transaction and
// its inverse, cancellation. Both run as a single all-or-nothing unit of
// work: the seat rows, the booking rows and the event's tickets_booked
// counter always change together or not at all.
type BookingHandler struct {
	EventRepo   *repository.EventRepo
	SeatRepo    *repository.SeatRepo
	BookingRepo *repository.BookingRepo

	// PublishEvents toggles post-commit queue notifications. Disabled in
	// tests so they do not dial a broker.
	PublishEvents bool
}

// NewBookingHandler constructs a BookingHandler. All dependencies must be
// non-nil.
func NewBookingHandler(eventRepo *repository.EventRepo, seatRepo *repository.SeatRepo, bookingRepo *repository.BookingRepo) *BookingHandler {
	if eventRepo == nil || seatRepo == nil || bookingRepo == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{EventRepo: eventRepo, SeatRepo: seatRepo, BookingRepo: bookingRepo, PublishEvents: true}
}

// createBookingRequest is the POST /bookings payload.
type createBookingRequest struct {
	UserID      uint64   `json:"user_id"`
	EventID     uint64   `json:"event_id"`
	SeatNumbers []string `json:"seat_numbers"`
}

// Create handles POST /bookings. Inside one transaction it locks every
// requested seat row with a single SELECT ... FOR UPDATE, so two concurrent
// requests for overlapping seats serialize: the second sees whatever the
// first committed. The request fails as a whole when any seat is unknown
// (404, naming the missing seats) or already booked (409, naming the taken
// seats); partial bookings are never visible.
func (h *BookingHandler) Create(c echo.Context) error {
	var body createBookingRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.UserID == 0 || body.EventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id and event_id are required"})
	}
	seatNumbers := dedupSeatNumbers(body.SeatNumbers)
	if len(seatNumbers) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_numbers must be a non-empty list"})
	}

	ctx := c.Request().Context()
	event, err := h.EventRepo.GetByID(ctx, body.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

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

	if err := h.SeatRepo.LockSeatsTx(ctx, tx, body.EventID, seatNumbers); err != nil {
		var missing *repository.SeatMissingError
		if errors.As(err, &missing) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"error":   "some seats do not exist for this event",
				"missing": missing.SeatNumbers,
			})
		}
		var taken *repository.SeatConflictError
		if errors.As(err, &taken) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error":          "some seats are already booked",
				"already_booked": taken.SeatNumbers,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check seat availability"})
	}

	if err := h.SeatRepo.SetAvailabilityTx(ctx, tx, body.EventID, seatNumbers, false); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update seat status"})
	}
	if err := h.BookingRepo.CreateBulkTx(ctx, tx, body.UserID, body.EventID, seatNumbers); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create bookings"})
	}
	if err := h.EventRepo.AddTicketsBookedTx(ctx, tx, body.EventID, len(seatNumbers)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update event counter"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	if h.PublishEvents {
		ev := queue.BookingConfirmedEvent{
			MessageID:   uuid.NewString(),
			UserID:      body.UserID,
			EventID:     event.ID,
			EventName:   event.Name,
			Venue:       event.Venue,
			SeatNumbers: seatNumbers,
			BookedAt:    time.Now().UTC().Format(time.RFC3339),
		}
		// Best effort; the booking is committed either way.
		go func() { _ = queue_publisher.PublishBookingConfirmed(context.Background(), ev) }()
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":      fmt.Sprintf("booking successful for %d seats", len(seatNumbers)),
		"seats_booked": len(seatNumbers),
	})
}

// Cancel handles DELETE /bookings/:id. In one transaction it deletes the
// booking row, returns the seat to availability and decrements the event's
// tickets_booked counter. The booking row is locked first so a concurrent
// cancel of the same booking cannot decrement the counter twice.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
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

	booking, err := h.BookingRepo.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.BookingRepo.DeleteTx(ctx, tx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete booking"})
	}
	if err := h.SeatRepo.SetAvailabilityTx(ctx, tx, booking.EventID, []string{booking.SeatNumber}, true); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update seat status"})
	}
	if err := h.EventRepo.AddTicketsBookedTx(ctx, tx, booking.EventID, -1); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update event counter"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	if h.PublishEvents {
		ev := queue.BookingCancelledEvent{
			MessageID:   uuid.NewString(),
			BookingID:   booking.ID,
			UserID:      booking.UserID,
			EventID:     booking.EventID,
			SeatNumber:  booking.SeatNumber,
			CancelledAt: time.Now().UTC().Format(time.RFC3339),
		}
		go func() { _ = queue_publisher.PublishBookingCancelled(context.Background(), ev) }()
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "booking canceled successfully"})
}

// dedupSeatNumbers trims blanks and drops duplicates while preserving the
// order seats were requested in.
func dedupSeatNumbers(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, sn := range in {
		sn = strings.TrimSpace(sn)
		if sn == "" {
			continue
		}
		if _, ok := seen[sn]; ok {
			continue
		}
		seen[sn] = struct{}{}
		out = append(out, sn)
	}
	return out
}
