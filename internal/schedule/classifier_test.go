package schedule

import (
	"testing"

	"github.com/clubhub/booking-api/internal/model"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		want model.VenueClass
	}{
		{"North Pantry", model.VenueClassPantry},
		{"PANTRY 2", model.VenueClassPantry},
		{"Basement pantry (small)", model.VenueClassPantry},
		{"Main Hall", model.VenueClassStandard},
		{"Meeting Room B", model.VenueClassStandard},
		{"", model.VenueClassStandard},
		// substring match, not word match
		{"Pantryside Lounge", model.VenueClassPantry},
	}
	for _, tc := range cases {
		if got := Classify(tc.name); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.name, got, tc.want)
		}
	}
}
