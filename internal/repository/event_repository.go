package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/clubhub/booking-api/internal/model"
)

// EventRepo serves read access to the public events calendar.  Mirror
// events are written through the BookingStore inside the booking
// transaction; directly-created events belong to the events subsystem
// and are out of scope here.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns an EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// ListUpcoming returns events ending after the given instant, ordered
// by start time.  When no events exist it returns an empty slice.
func (r *EventRepo) ListUpcoming(ctx context.Context, after time.Time) ([]model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE ends_at > ? ORDER BY starts_at ASC`
	rows, err := r.db.QueryContext(ctx, q, after.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Event, 0)
	for rows.Next() {
		var ev model.Event
		if err := scanEvent(rows, &ev); err != nil {
			return nil, err
		}
		result = append(result, ev)
	}
	return result, rows.Err()
}
