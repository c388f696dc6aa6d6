package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Seat represents one bookable unit of an event. Seats are identified by
// (event_id, seat_number); seat_number is a text label, so listings come
// back in lexicographic order ("10" sorts before "2").
type Seat struct {
	SeatNumber  string `json:"seat_number"`
	IsAvailable bool   `json:"is_available"`
}

// SeatRepo provides methods to work with seats in the database.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// mysqlDuplicateEntry is the server error code for a unique key violation.
const mysqlDuplicateEntry = 1062

// placeholders returns a "?, ?, ..." list for n bind parameters.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// ListByEvent returns every seat of an event with its availability flag,
// ordered by seat_number. The column is text, so the order is
// lexicographic, matching what the seat map UI has always shown.
func (r *SeatRepo) ListByEvent(ctx context.Context, eventID uint64) ([]Seat, error) {
	const q = `SELECT seat_number, is_available FROM seats
	           WHERE event_id = ?
	           ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]Seat, 0)
	for rows.Next() {
		var s Seat
		if err := rows.Scan(&s.SeatNumber, &s.IsAvailable); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// CountByEventTx counts seat rows for an event within a transaction. Seat
// generation refuses to run when any rows already exist.
func (r *SeatRepo) CountByEventTx(ctx context.Context, tx *sql.Tx, eventID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM seats WHERE event_id = ?`
	var n int
	if err := tx.QueryRowContext(ctx, q, eventID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// GenerateTx bulk-inserts seats labeled "1".."capacity", all available, in a
// single statement. The seats table carries a unique key on
// (event_id, seat_number), so a concurrent duplicate call loses the race at
// the constraint rather than doubling the seat count; that violation is
// surfaced as ErrSeatsAlreadyGenerated.
func (r *SeatRepo) GenerateTx(ctx context.Context, tx *sql.Tx, eventID uint64, capacity int) error {
	if capacity <= 0 {
		return nil
	}
	query := `INSERT INTO seats (event_id, seat_number, is_available) VALUES `
	args := make([]interface{}, 0, capacity*2)
	for i := 1; i <= capacity; i++ {
		if i > 1 {
			query += ","
		}
		query += "(?, ?, TRUE)"
		args = append(args, eventID, strconv.Itoa(i))
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return ErrSeatsAlreadyGenerated
		}
		return err
	}
	return nil
}

// LockSeatsTx issues the locking read at the heart of the booking
// transaction: it selects every requested seat row FOR UPDATE so concurrent
// bookings targeting overlapping seats serialize against each other. The
// full requested set is locked in one statement. Rows absent from the
// result never existed for this event and are reported via
// *SeatMissingError; rows already taken are reported via
// *SeatConflictError. Both checks look at the whole set, so the error
// names every offending seat, not just the first.
func (r *SeatRepo) LockSeatsTx(ctx context.Context, tx *sql.Tx, eventID uint64, seatNumbers []string) error {
	if len(seatNumbers) == 0 {
		return nil
	}
	query := `SELECT seat_number, is_available FROM seats
	          WHERE event_id = ? AND seat_number IN (` + placeholders(len(seatNumbers)) + `)
	          FOR UPDATE`
	args := make([]interface{}, 0, len(seatNumbers)+1)
	args = append(args, eventID)
	for _, sn := range seatNumbers {
		args = append(args, sn)
	}
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	available := make(map[string]bool, len(seatNumbers))
	for rows.Next() {
		var s Seat
		if err := rows.Scan(&s.SeatNumber, &s.IsAvailable); err != nil {
			return err
		}
		available[s.SeatNumber] = s.IsAvailable
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing, taken []string
	for _, sn := range seatNumbers {
		avail, ok := available[sn]
		switch {
		case !ok:
			missing = append(missing, sn)
		case !avail:
			taken = append(taken, sn)
		}
	}
	if len(missing) > 0 {
		return &SeatMissingError{SeatNumbers: missing}
	}
	if len(taken) > 0 {
		return &SeatConflictError{SeatNumbers: taken}
	}
	return nil
}

// SetAvailabilityTx flips the availability flag for a set of seats within a
// transaction.
func (r *SeatRepo) SetAvailabilityTx(ctx context.Context, tx *sql.Tx, eventID uint64, seatNumbers []string, available bool) error {
	if len(seatNumbers) == 0 {
		return nil
	}
	query := `UPDATE seats SET is_available = ?
	          WHERE event_id = ? AND seat_number IN (` + placeholders(len(seatNumbers)) + `)`
	args := make([]interface{}, 0, len(seatNumbers)+2)
	args = append(args, available, eventID)
	for _, sn := range seatNumbers {
		args = append(args, sn)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// DeleteByEventTx removes all seats of an event as part of the cascade
// delete transaction.
func (r *SeatRepo) DeleteByEventTx(ctx context.Context, tx *sql.Tx, eventID uint64) error {
	const q = `DELETE FROM seats WHERE event_id = ?`
	_, err := tx.ExecContext(ctx, q, eventID)
	return err
}
