package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Event mirrors the events table. TicketsBooked is a denormalized counter
// maintained by the booking and cancellation transactions; it always equals
// the number of booking rows for the event.
type Event struct {
	ID            uint64    `json:"id"`
	Name          string    `json:"name"`
	Venue         string    `json:"venue"`
	StartTime     time.Time `json:"start_time"`
	TotalCapacity int       `json:"total_capacity"`
	TicketsBooked int       `json:"tickets_booked"`
}

// EventRepo provides CRUD operations for events.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span several repositories.
func (r *EventRepo) DB() *sql.DB { return r.db }

const eventColumns = `id, name, venue, start_time, total_capacity, tickets_booked`

// List returns all events, or those whose name or venue contains the search
// term case-insensitively when search is non-empty. The result set is
// unbounded; the catalog is assumed to stay small.
func (r *EventRepo) List(ctx context.Context, search string) ([]Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events`
	var args []interface{}
	if search != "" {
		q += ` WHERE LOWER(name) LIKE ? OR LOWER(venue) LIKE ?`
		pat := "%" + strings.ToLower(search) + "%"
		args = append(args, pat, pat)
	}
	q += ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0)
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Venue, &e.StartTime, &e.TotalCapacity, &e.TicketsBooked); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// GetByID retrieves a single event. Returns ErrEventNotFound when the id
// does not exist.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	var e Event
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&e.ID, &e.Name, &e.Venue, &e.StartTime, &e.TotalCapacity, &e.TicketsBooked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event with tickets_booked initialized to zero. On
// success the event's ID is populated.
func (r *EventRepo) Create(ctx context.Context, e *Event) error {
	const q = `INSERT INTO events (name, venue, start_time, total_capacity, tickets_booked)
	           VALUES (?, ?, ?, ?, 0)`
	res, err := r.db.ExecContext(ctx, q, e.Name, e.Venue, e.StartTime, e.TotalCapacity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// CapacityTx returns the total capacity of an event within a transaction.
// Returns ErrEventNotFound when the event does not exist.
func (r *EventRepo) CapacityTx(ctx context.Context, tx *sql.Tx, id uint64) (int, error) {
	const q = `SELECT total_capacity FROM events WHERE id = ?`
	var capacity int
	if err := tx.QueryRowContext(ctx, q, id).Scan(&capacity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrEventNotFound
		}
		return 0, err
	}
	return capacity, nil
}

// AddTicketsBookedTx adjusts the denormalized booking counter by delta
// (positive when booking, negative when cancelling) within a transaction.
func (r *EventRepo) AddTicketsBookedTx(ctx context.Context, tx *sql.Tx, id uint64, delta int) error {
	const q = `UPDATE events SET tickets_booked = tickets_booked + ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, delta, id)
	return err
}

// DeleteTx removes the event row itself. Bookings and seats must be removed
// first in the same transaction; the cascade order is orchestrated by the
// handler. Deleting a nonexistent event is not an error.
func (r *EventRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `DELETE FROM events WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, id)
	return err
}
