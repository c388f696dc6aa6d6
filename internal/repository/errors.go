// Package repository implements data access for events, seats, bookings and
// users on top of database/sql. Error values defined here let handlers map
// failures onto HTTP statuses without inspecting driver error text.
package repository

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEventNotFound is returned when an event lookup yields no rows.
// Handlers translate this into an HTTP 404 response.
var ErrEventNotFound = errors.New("event not found")

// ErrBookingNotFound is returned when a booking lookup yields no rows.
var ErrBookingNotFound = errors.New("booking not found")

// ErrSeatsAlreadyGenerated is returned when seat generation is attempted for
// an event that already has seat rows. Handlers translate this into 409.
var ErrSeatsAlreadyGenerated = errors.New("seats already generated")

// SeatConflictError reports seats that are already booked. The whole booking
// request is rejected when any requested seat conflicts.
type SeatConflictError struct {
	SeatNumbers []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats already booked: %s", strings.Join(e.SeatNumbers, ", "))
}

// SeatMissingError reports requested seat numbers that do not exist for the
// event. Booking a seat that was never generated is refused rather than
// silently inserting an orphaned booking row.
type SeatMissingError struct {
	SeatNumbers []string
}

func (e *SeatMissingError) Error() string {
	return fmt.Sprintf("seats not found: %s", strings.Join(e.SeatNumbers, ", "))
}
