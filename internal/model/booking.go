package model

import "time"

// Booking records an exclusive reservation of one venue for a half-open
// time interval [StartsAt, EndsAt).  A booking belongs to exactly one
// organisation and was placed by exactly one user.  When AddToCalendar
// is set, a mirrored Event row exists and is kept in lockstep with the
// booking.  This struct corresponds to a row in the `bookings` table.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – human-readable booking name.
//  VenueID       – venue being reserved.
//  OrgID         – organisation on whose behalf the booking was made.
//  UserID        – user who placed the booking.
//  StartsAt      – start instant (inclusive, UTC).
//  EndsAt        – end instant (exclusive, UTC); always after StartsAt.
//  AddToCalendar – whether a public event mirrors this booking.
//  EventID       – linked event ID when AddToCalendar is true (nil otherwise).
//  IsDeleted     – soft-delete flag; deleted rows never block conflicts.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Booking struct {
	ID            uint64    // bookings.id
	Name          string    // bookings.name
	VenueID       uint64    // bookings.venue_id
	OrgID         uint64    // bookings.org_id
	UserID        uint64    // bookings.user_id
	StartsAt      time.Time // bookings.starts_at (UTC)
	EndsAt        time.Time // bookings.ends_at (UTC, exclusive)
	AddToCalendar bool      // bookings.add_to_calendar
	EventID       *uint64   // bookings.event_id (nullable)
	IsDeleted     bool      // bookings.is_deleted
	CreatedAt     time.Time // bookings.created_at
	UpdatedAt     time.Time // bookings.updated_at
}

// Overlaps reports whether the booking's interval overlaps [start, end)
// using the half-open interval test: touching endpoints do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartsAt.Before(end) && start.Before(b.EndsAt)
}
