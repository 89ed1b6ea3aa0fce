package schedule

import (
	"strings"

	"github.com/clubhub/booking-api/internal/model"
)

// Classify derives a venue's booking class from its display name: a
// venue is pantry-class iff the name contains the substring "pantry",
// case-insensitively.  The result is stored on the venue row at
// creation time; policy checks read the stored class, never the name,
// so later renames cannot silently move a venue between classes.
func Classify(venueName string) model.VenueClass {
	if strings.Contains(strings.ToLower(venueName), "pantry") {
		return model.VenueClassPantry
	}
	return model.VenueClassStandard
}
