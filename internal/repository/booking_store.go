// Package repository contains the MySQL data access layer.  All
// timestamp columns are DATETIME stored in UTC; the DSN sets
// parseTime=true so they scan directly into time.Time.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/clubhub/booking-api/internal/booking"
	"github.com/clubhub/booking-api/internal/model"
)

// BookingStore is the MySQL implementation of booking.Store.  Mutations
// issued through a WithTx context share one transaction; the overlap
// query locks matching rows with FOR UPDATE so the conflict check and
// the subsequent write form a single atomic unit.
type BookingStore struct {
	db *sql.DB
}

// NewBookingStore returns a BookingStore bound to the given database.
func NewBookingStore(db *sql.DB) *BookingStore { return &BookingStore{db: db} }

// DB exposes the underlying pool for callers that need to compose
// transactions across repositories.
func (s *BookingStore) DB() *sql.DB { return s.db }

// WithTx implements booking.Store.
func (s *BookingStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, s.db, fn)
}

const bookingColumns = `id, name, venue_id, org_id, user_id, starts_at, ends_at, add_to_calendar, event_id, is_deleted, created_at, updated_at`

func scanBooking(row interface{ Scan(dest ...any) error }, b *model.Booking) error {
	var eventID sql.NullInt64
	if err := row.Scan(
		&b.ID, &b.Name, &b.VenueID, &b.OrgID, &b.UserID,
		&b.StartsAt, &b.EndsAt, &b.AddToCalendar, &eventID, &b.IsDeleted,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return err
	}
	if eventID.Valid {
		id := uint64(eventID.Int64)
		b.EventID = &id
	}
	return nil
}

// GetVenue loads a venue row.  It returns booking.ErrVenueNotFound when
// no venue with the given ID exists.
func (s *BookingStore) GetVenue(ctx context.Context, id uint64) (*model.Venue, error) {
	const q = `SELECT id, name, venue_class, created_at, updated_at FROM venues WHERE id = ?`
	var v model.Venue
	err := run(ctx, s.db).QueryRowContext(ctx, q, id).Scan(&v.ID, &v.Name, &v.Class, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

// GetBooking loads a non-deleted booking by ID.  It returns
// booking.ErrNotFound when the row is absent or soft-deleted.
func (s *BookingStore) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? AND is_deleted = 0`
	var b model.Booking
	if err := scanBooking(run(ctx, s.db).QueryRowContext(ctx, q, id), &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindOverlapping returns all non-deleted bookings on the venue whose
// interval overlaps [start, end).  Two bookings overlap when one starts
// before the other ends; touching endpoints do not conflict.  The
// booking with excludeID is left out so an edit never conflicts with
// itself (pass 0 on create).  Rows are locked FOR UPDATE so concurrent
// mutations on the same venue serialize on the conflict check.
func (s *BookingStore) FindOverlapping(ctx context.Context, venueID uint64, start, end time.Time, excludeID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
               FROM bookings
               WHERE venue_id = ? AND is_deleted = 0 AND id <> ?
                 AND NOT (ends_at <= ? OR starts_at >= ?)
               FOR UPDATE`
	rows, err := run(ctx, s.db).QueryContext(ctx, q, venueID, excludeID, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var overlaps []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		overlaps = append(overlaps, b)
	}
	return overlaps, rows.Err()
}

// CreateBooking inserts a booking and populates the generated ID and
// DB-default fields on the given struct.
func (s *BookingStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (name, venue_id, org_id, user_id, starts_at, ends_at, add_to_calendar)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	r := run(ctx, s.db)
	res, err := r.ExecContext(ctx, q, b.Name, b.VenueID, b.OrgID, b.UserID, b.StartsAt.UTC(), b.EndsAt.UTC(), b.AddToCalendar)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	return scanBooking(r.QueryRowContext(ctx, sel, b.ID), b)
}

// UpdateBooking persists the mutable fields of an existing booking.
func (s *BookingStore) UpdateBooking(ctx context.Context, b *model.Booking) error {
	const q = `UPDATE bookings
               SET name = ?, venue_id = ?, org_id = ?, starts_at = ?, ends_at = ?, add_to_calendar = ?
               WHERE id = ? AND is_deleted = 0`
	_, err := run(ctx, s.db).ExecContext(ctx, q,
		b.Name, b.VenueID, b.OrgID, b.StartsAt.UTC(), b.EndsAt.UTC(), b.AddToCalendar, b.ID)
	return err
}

// DeleteBooking removes the booking row entirely.
func (s *BookingStore) DeleteBooking(ctx context.Context, id uint64) error {
	const q = `DELETE FROM bookings WHERE id = ?`
	_, err := run(ctx, s.db).ExecContext(ctx, q, id)
	return err
}

// MarkBookingDeleted sets the soft-delete flag.  The row stays in the
// table for audits but stops participating in loads and conflicts.
func (s *BookingStore) MarkBookingDeleted(ctx context.Context, id uint64) error {
	const q = `UPDATE bookings SET is_deleted = 1 WHERE id = ?`
	_, err := run(ctx, s.db).ExecContext(ctx, q, id)
	return err
}

// SetBookingEvent links (or with nil unlinks) the booking's mirror event.
func (s *BookingStore) SetBookingEvent(ctx context.Context, bookingID uint64, eventID *uint64) error {
	const q = `UPDATE bookings SET event_id = ? WHERE id = ?`
	var v any
	if eventID != nil {
		v = *eventID
	}
	_, err := run(ctx, s.db).ExecContext(ctx, q, v, bookingID)
	return err
}

const eventColumns = `id, name, org_id, starts_at, ends_at, booking_id, created_at, updated_at`

func scanEvent(row interface{ Scan(dest ...any) error }, ev *model.Event) error {
	var bookingID sql.NullInt64
	if err := row.Scan(&ev.ID, &ev.Name, &ev.OrgID, &ev.StartsAt, &ev.EndsAt, &bookingID, &ev.CreatedAt, &ev.UpdatedAt); err != nil {
		return err
	}
	if bookingID.Valid {
		id := uint64(bookingID.Int64)
		ev.BookingID = &id
	}
	return nil
}

// GetEventByBooking returns the mirror event of a booking, or (nil, nil)
// when the booking has none.
func (s *BookingStore) GetEventByBooking(ctx context.Context, bookingID uint64) (*model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE booking_id = ?`
	var ev model.Event
	if err := scanEvent(run(ctx, s.db).QueryRowContext(ctx, q, bookingID), &ev); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ev, nil
}

// CreateEvent inserts an event and populates the generated ID and
// DB-default fields on the given struct.
func (s *BookingStore) CreateEvent(ctx context.Context, ev *model.Event) error {
	const q = `INSERT INTO events (name, org_id, starts_at, ends_at, booking_id) VALUES (?, ?, ?, ?, ?)`
	r := run(ctx, s.db)
	var bookingID any
	if ev.BookingID != nil {
		bookingID = *ev.BookingID
	}
	res, err := r.ExecContext(ctx, q, ev.Name, ev.OrgID, ev.StartsAt.UTC(), ev.EndsAt.UTC(), bookingID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = uint64(id)
	const sel = `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	return scanEvent(r.QueryRowContext(ctx, sel, ev.ID), ev)
}

// UpdateEvent persists the mirrored fields of an event.
func (s *BookingStore) UpdateEvent(ctx context.Context, ev *model.Event) error {
	const q = `UPDATE events SET name = ?, org_id = ?, starts_at = ?, ends_at = ? WHERE id = ?`
	_, err := run(ctx, s.db).ExecContext(ctx, q, ev.Name, ev.OrgID, ev.StartsAt.UTC(), ev.EndsAt.UTC(), ev.ID)
	return err
}

// DeleteEventByBooking removes the mirror event of a booking, if any.
func (s *BookingStore) DeleteEventByBooking(ctx context.Context, bookingID uint64) error {
	const q = `DELETE FROM events WHERE booking_id = ?`
	_, err := run(ctx, s.db).ExecContext(ctx, q, bookingID)
	return err
}

// ListByVenue returns the non-deleted bookings for a venue whose
// interval overlaps [from, to), ordered by start time.  It serves the
// public timetable views and runs outside any transaction.
func (s *BookingStore) ListByVenue(ctx context.Context, venueID uint64, from, to time.Time) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
               FROM bookings
               WHERE venue_id = ? AND is_deleted = 0
                 AND NOT (ends_at <= ? OR starts_at >= ?)
               ORDER BY starts_at ASC`
	rows, err := run(ctx, s.db).QueryContext(ctx, q, venueID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}
