package model

import "time"

// Event is a public calendar entry.  Events are either created directly
// through the events subsystem or spawned as the mirror of a booking; a
// mirrored event carries a back-reference to its parent booking and is
// created, updated and deleted in lockstep with it.  This struct
// corresponds to a row in the `events` table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – event title shown on the public calendar.
//  OrgID     – organisation hosting the event.
//  StartsAt  – start instant (UTC).
//  EndsAt    – end instant (UTC, exclusive); always after StartsAt.
//  BookingID – parent booking when the event mirrors one (nil otherwise).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Event struct {
	ID        uint64    // events.id
	Name      string    // events.name
	OrgID     uint64    // events.org_id
	StartsAt  time.Time // events.starts_at (UTC)
	EndsAt    time.Time // events.ends_at (UTC, exclusive)
	BookingID *uint64   // events.booking_id (nullable)
	CreatedAt time.Time // events.created_at
	UpdatedAt time.Time // events.updated_at
}
