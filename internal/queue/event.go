// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// Queue names used on the broker. Both queues are declared durable by
// publisher and consumer alike, so declaration is idempotent no matter which
// side starts first.
const (
	BookingConfirmedQueue = "booking.confirmed"
	BookingCancelledQueue = "booking.cancelled"
)

// BookingConfirmedEvent is published after a booking transaction commits.
// It carries enough information for downstream consumers to log or notify
// without querying the primary database. MessageID is unique per publish so
// consumers can deduplicate broker redeliveries.
type BookingConfirmedEvent struct {
	MessageID   string   `json:"message_id"`
	UserID      uint64   `json:"user_id"`
	EventID     uint64   `json:"event_id"`
	EventName   string   `json:"event_name"`
	Venue       string   `json:"venue"`
	SeatNumbers []string `json:"seat_numbers"`
	BookedAt    string   `json:"booked_at"`
}

// BookingCancelledEvent is published after a cancellation commits.
type BookingCancelledEvent struct {
	MessageID   string `json:"message_id"`
	BookingID   uint64 `json:"booking_id"`
	UserID      uint64 `json:"user_id"`
	EventID     uint64 `json:"event_id"`
	SeatNumber  string `json:"seat_number"`
	CancelledAt string `json:"cancelled_at"`
}
