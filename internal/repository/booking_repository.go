package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Booking mirrors the bookings table. BookingTime is assigned by the
// database at insert time, never by the client.
type Booking struct {
	ID          uint64
	UserID      uint64
	EventID     uint64
	SeatNumber  string
	BookingTime time.Time
}

// UserBookingDetail is one row of a user's booking history, joined with the
// event it belongs to. It is rendered directly by the handler.
type UserBookingDetail struct {
	BookingID   uint64    `json:"booking_id"`
	EventName   string    `json:"event_name"`
	Venue       string    `json:"venue"`
	StartTime   time.Time `json:"start_time"`
	SeatNumber  string    `json:"seat_number"`
	BookingTime time.Time `json:"booking_time"`
}

// BookingRepo provides CRUD operations for bookings.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateBulkTx inserts one booking row per seat in a single statement within
// the provided transaction. booking_time defaults to the server clock.
func (r *BookingRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, userID, eventID uint64, seatNumbers []string) error {
	if len(seatNumbers) == 0 {
		return nil
	}
	query := `INSERT INTO bookings (user_id, event_id, seat_number) VALUES `
	args := make([]interface{}, 0, len(seatNumbers)*3)
	for i, sn := range seatNumbers {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, userID, eventID, sn)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetForUpdateTx loads a booking and locks its row for the remainder of the
// transaction, so a concurrent cancellation of the same booking serializes
// behind this one. Returns ErrBookingNotFound when the id does not exist.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*Booking, error) {
	const q = `SELECT id, user_id, event_id, seat_number, booking_time
	           FROM bookings WHERE id = ? FOR UPDATE`
	var b Booking
	err := tx.QueryRowContext(ctx, q, id).
		Scan(&b.ID, &b.UserID, &b.EventID, &b.SeatNumber, &b.BookingTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// DeleteTx removes a single booking row within a transaction.
func (r *BookingRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `DELETE FROM bookings WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, id)
	return err
}

// DeleteByEventTx removes all bookings of an event as part of the cascade
// delete transaction.
func (r *BookingRepo) DeleteByEventTx(ctx context.Context, tx *sql.Tx, eventID uint64) error {
	const q = `DELETE FROM bookings WHERE event_id = ?`
	_, err := tx.ExecContext(ctx, q, eventID)
	return err
}

// ListByUser returns the booking history of a user joined with event
// details, oldest booking first. An unknown user simply has no bookings.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]UserBookingDetail, error) {
	const q = `SELECT b.id, e.name, e.venue, e.start_time, b.seat_number, b.booking_time
	           FROM bookings b
	           JOIN events e ON e.id = b.event_id
	           WHERE b.user_id = ?
	           ORDER BY b.booking_time, b.id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]UserBookingDetail, 0)
	for rows.Next() {
		var d UserBookingDetail
		if err := rows.Scan(&d.BookingID, &d.EventName, &d.Venue, &d.StartTime, &d.SeatNumber, &d.BookingTime); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
