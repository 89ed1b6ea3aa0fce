package schedule

import (
	"time"

	"github.com/clubhub/booking-api/internal/model"
)

// Minimum advance notice in whole UTC calendar days per venue class.
const (
	PantryLeadDays   = 1
	StandardLeadDays = 7
)

// PolicyError reports that a candidate booking starts too soon for its
// venue class.  The message is class-specific and safe to show to the
// requesting user.
type PolicyError struct {
	Class    model.VenueClass
	Required int // minimum lead time in days
	Actual   int // computed lead time in days
}

func (e *PolicyError) Error() string {
	if e.Class == model.VenueClassPantry {
		return "pantry bookings must be made at least 1 day in advance"
	}
	return "venue bookings must be made at least 7 days in advance"
}

// CheckLeadTime admits or rejects a candidate start time for the given
// venue class.  Lead time is measured in whole UTC calendar days
// between the midnight floors of now and the candidate start, so a
// booking at 00:01 and one at 23:59 on the same day are treated
// identically.  Administrator bypass is decided by the caller; this
// function only implements the class floor.  A nil return means admit.
func CheckLeadTime(class model.VenueClass, now, start time.Time) *PolicyError {
	required := StandardLeadDays
	if class == model.VenueClassPantry {
		required = PantryLeadDays
	}
	days := daysUntil(now, start)
	if days < required {
		return &PolicyError{Class: class, Required: required, Actual: days}
	}
	return nil
}

// daysUntil counts calendar days from now to start, both floored to UTC
// midnight.  Starts in the past yield negative values.
func daysUntil(now, start time.Time) int {
	return int(midnightUTC(start).Sub(midnightUTC(now)).Hours() / 24)
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
