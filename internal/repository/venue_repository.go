package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/clubhub/booking-api/internal/model"
)

// ErrVenueExists is returned when a venue with the same name already
// exists.  Handlers should translate this into an HTTP 409 response.
var ErrVenueExists = errors.New("venue already exists")

// VenueRepo manages the venue directory.  Venues are created by
// administrators; the booking subsystem only ever reads them.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo returns a VenueRepo bound to the given database.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

// Create inserts a venue with its resolved booking class and populates
// the generated ID and timestamps on the given struct.  The unique
// index on venues.name surfaces duplicates as ErrVenueExists.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	const q = `INSERT INTO venues (name, venue_class) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.Class)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrVenueExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	const sel = `SELECT id, name, venue_class, created_at, updated_at FROM venues WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, v.ID).Scan(&v.ID, &v.Name, &v.Class, &v.CreatedAt, &v.UpdatedAt)
}

// List returns all venues ordered by name.
func (r *VenueRepo) List(ctx context.Context) ([]model.Venue, error) {
	const q = `SELECT id, name, venue_class, created_at, updated_at FROM venues ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Venue, 0)
	for rows.Next() {
		var v model.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Class, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}
