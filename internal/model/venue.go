package model

import "time"

// VenueClass identifies which advance-notice rules apply to a venue.
// The class is resolved once when the venue is created and stored in
// the `venue_class` column, so renaming a venue never silently changes
// its booking policy.
type VenueClass string

const (
	// VenueClassPantry marks small shared spaces (pantries) that only
	// require one day of advance notice.
	VenueClassPantry VenueClass = "PANTRY"
	// VenueClassStandard marks every other venue; bookings need a full
	// week of advance notice.
	VenueClassStandard VenueClass = "STANDARD"
)

// Venue represents a bookable physical space owned by the club portal.
// Venues are referenced by bookings but never mutated by the booking
// subsystem.  This struct corresponds to a row in the `venues` table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique display name of the venue.
//  Class     – stored booking class (PANTRY or STANDARD).
//  CreatedAt – timestamp when the venue was created.
//  UpdatedAt – timestamp of last update.
type Venue struct {
	ID        uint64     // venues.id
	Name      string     // venues.name
	Class     VenueClass // venues.venue_class
	CreatedAt time.Time  // venues.created_at
	UpdatedAt time.Time  // venues.updated_at
}
