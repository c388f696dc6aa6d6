package repository

import (
	"context"
	"database/sql"
)

// PopularEvent ranks an event by its booking count.
type PopularEvent struct {
	EventID      uint64 `json:"event_id"`
	EventName    string `json:"event_name"`
	BookingCount int64  `json:"booking_count"`
}

// AnalyticsRepo aggregates booking statistics. All queries are read-only.
type AnalyticsRepo struct {
	db *sql.DB
}

// NewAnalyticsRepo returns a new AnalyticsRepo bound to the given database.
func NewAnalyticsRepo(db *sql.DB) *AnalyticsRepo { return &AnalyticsRepo{db: db} }

// TotalBookings counts booking rows across all events.
func (r *AnalyticsRepo) TotalBookings(ctx context.Context) (int64, error) {
	const q = `SELECT COUNT(*) FROM bookings`
	var n int64
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// TopEvents returns the most-booked events, highest count first. Ties break
// on event id ascending so repeated calls return a stable order.
func (r *AnalyticsRepo) TopEvents(ctx context.Context, limit int) ([]PopularEvent, error) {
	const q = `SELECT e.id, e.name, COUNT(b.id) AS booking_count
	           FROM bookings b
	           JOIN events e ON e.id = b.event_id
	           GROUP BY e.id, e.name
	           ORDER BY booking_count DESC, e.id ASC
	           LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	top := make([]PopularEvent, 0, limit)
	for rows.Next() {
		var p PopularEvent
		if err := rows.Scan(&p.EventID, &p.EventName, &p.BookingCount); err != nil {
			return nil, err
		}
		top = append(top, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return top, nil
}
