// Package schedule contains the pure scheduling domain: the timetable
// grid, the venue classifier and the advance-notice policy.  Nothing in
// this package touches the database or the transport layer.
package schedule

import (
	"strconv"
	"strings"
	"time"
)

// SlotsPerDay is the number of fixed-width grid slots in one calendar
// day at 30-minute resolution.
const SlotsPerDay = 48

// HourIndex parses a 12-hour clock label ("12AM".."11PM") into an
// hour-of-day index in [0,24).  Labels are matched case-insensitively
// and surrounding whitespace is ignored.  Invalid or empty input maps
// to index 0; the timetable treats a bad label as the top of the grid
// rather than an error, so callers that need strictness must validate
// first.
func HourIndex(label string) int {
	s := strings.ToUpper(strings.TrimSpace(label))
	if len(s) < 3 {
		return 0
	}
	suffix := s[len(s)-2:]
	if suffix != "AM" && suffix != "PM" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(s[:len(s)-2]))
	if err != nil || n < 1 || n > 12 {
		return 0
	}
	// 12AM is midnight and 12PM is noon.
	if n == 12 {
		n = 0
	}
	if suffix == "PM" {
		n += 12
	}
	return n
}

// HourLabel is the inverse of HourIndex for valid indices.  Out-of-range
// input is clamped into [0,24) so a label is always produced.
func HourLabel(index int) string {
	index = ((index % 24) + 24) % 24
	suffix := "AM"
	if index >= 12 {
		suffix = "PM"
	}
	h := index % 12
	if h == 0 {
		h = 12
	}
	return strconv.Itoa(h) + suffix
}

// SlotIndex converts an instant into its 30-minute slot of day in
// [0,SlotsPerDay).  The instant is evaluated in UTC.
func SlotIndex(t time.Time) int {
	t = t.UTC()
	return t.Hour()*2 + t.Minute()/30
}

// Range is the result of normalizing a drag selection on one venue
// column of the timetable.  MinIndex and MaxIndex form the inclusive
// hour-index range to highlight; Start and End form the half-open
// candidate interval [Start, End) on the selected date.
type Range struct {
	MinIndex int       // first highlighted hour index
	MaxIndex int       // last highlighted hour index (inclusive)
	Start    time.Time // candidate start instant (UTC)
	End      time.Time // candidate end instant (UTC, exclusive)
}

// BuildRange normalizes two drag endpoints into a Range.  The endpoints
// are order-independent: dragging upwards selects the same range as
// dragging downwards.  The half-open interval is produced by adding one
// hour past the inclusive max endpoint, so selecting "2PM".."3PM"
// yields [14:00, 16:00) on the given date.  Only the date portion of
// day is used; times are built in UTC.
func BuildRange(day time.Time, startLabel, endLabel string) Range {
	a := HourIndex(startLabel)
	b := HourIndex(endLabel)
	if a > b {
		a, b = b, a
	}
	y, m, d := day.UTC().Date()
	return Range{
		MinIndex: a,
		MaxIndex: b,
		Start:    time.Date(y, m, d, a, 0, 0, 0, time.UTC),
		End:      time.Date(y, m, d, b+1, 0, 0, 0, time.UTC),
	}
}
