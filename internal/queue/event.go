// Package queue defines message payloads exchanged over the message broker.
package queue

// Actions carried by BookingChangedEvent.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// BookingChangedEvent is published after a booking mutation commits.
// It contains enough information for downstream consumers to log,
// notify, or rebuild read views without querying the primary database.
type BookingChangedEvent struct {
	Action        string `json:"action"` // created | updated | deleted
	BookingID     uint64 `json:"booking_id"`
	Name          string `json:"name"`
	VenueID       uint64 `json:"venue_id"`
	OrgID         uint64 `json:"org_id"`
	UserID        uint64 `json:"user_id"`
	StartsAt      string `json:"starts_at"`
	EndsAt        string `json:"ends_at"`
	AddToCalendar bool   `json:"add_to_calendar"`
	ChangedAt     string `json:"changed_at"`
}
