package booking

import "errors"

var (
	// ErrUnauthenticated is returned when no acting identity accompanies
	// a mutation.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned when the actor may not act on behalf of
	// the booking's organisation.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned when an edit or delete targets a booking
	// that does not exist (or was already deleted).
	ErrNotFound = errors.New("invalid booking")
	// ErrVenueNotFound is returned when the referenced venue does not
	// exist in the venue directory.
	ErrVenueNotFound = errors.New("venue not found")
	// ErrConflict is returned when the candidate interval overlaps an
	// active booking on the same venue.
	ErrConflict = errors.New("venue is already booked for that time")
	// ErrInvalidInterval is returned when the start instant is not
	// strictly before the end instant.
	ErrInvalidInterval = errors.New("start time must be before end time")
)
