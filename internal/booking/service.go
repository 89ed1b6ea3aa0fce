// Package booking implements the booking lifecycle: create, edit and
// delete of venue bookings, including the authorization gate, the
// advance-notice policy, the conflict check and the event-mirror
// reconciliation.  All durable state is behind the Store interface and
// every mutation runs its check+write sequence inside one Store
// transaction, so no partial mutation is ever visible to concurrent
// requests.
package booking

import (
	"context"
	"time"

	"github.com/clubhub/booking-api/internal/clock"
	"github.com/clubhub/booking-api/internal/model"
	"github.com/clubhub/booking-api/internal/schedule"
)

// Store is the persistence surface the lifecycle needs.  WithTx runs fn
// inside a transaction; every Store call made with the context passed
// to fn participates in that transaction.  GetVenue and GetBooking
// return ErrVenueNotFound / ErrNotFound when the row is absent;
// GetBooking never returns soft-deleted rows.  GetEventByBooking
// returns (nil, nil) when no mirror event exists.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetVenue(ctx context.Context, id uint64) (*model.Venue, error)
	GetBooking(ctx context.Context, id uint64) (*model.Booking, error)
	FindOverlapping(ctx context.Context, venueID uint64, start, end time.Time, excludeID uint64) ([]model.Booking, error)
	CreateBooking(ctx context.Context, b *model.Booking) error
	UpdateBooking(ctx context.Context, b *model.Booking) error
	DeleteBooking(ctx context.Context, id uint64) error
	MarkBookingDeleted(ctx context.Context, id uint64) error
	SetBookingEvent(ctx context.Context, bookingID uint64, eventID *uint64) error
	GetEventByBooking(ctx context.Context, bookingID uint64) (*model.Event, error)
	CreateEvent(ctx context.Context, ev *model.Event) error
	UpdateEvent(ctx context.Context, ev *model.Event) error
	DeleteEventByBooking(ctx context.Context, bookingID uint64) error
}

// DeleteMode selects what a successful delete does to the booking row.
type DeleteMode string

const (
	// HardDelete removes the row entirely.
	HardDelete DeleteMode = "hard"
	// SoftDelete sets the is_deleted flag; the row stops participating
	// in conflict checks and loads but stays queryable for audits.
	SoftDelete DeleteMode = "soft"
)

// Service orchestrates booking mutations.
type Service struct {
	store      Store
	clock      clock.Clock
	deleteMode DeleteMode
}

// Option customizes a Service.
type Option func(*Service)

// WithDeleteMode overrides the default hard-delete behaviour.
func WithDeleteMode(m DeleteMode) Option {
	return func(s *Service) {
		if m == HardDelete || m == SoftDelete {
			s.deleteMode = m
		}
	}
}

// NewService constructs a Service.  The default delete mode is hard.
func NewService(store Store, clk clock.Clock, opts ...Option) *Service {
	svc := &Service{store: store, clock: clk, deleteMode: HardDelete}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Input carries the mutable booking fields for create and edit.
type Input struct {
	Name          string
	OrgID         uint64
	VenueID       uint64
	StartsAt      time.Time
	EndsAt        time.Time
	AddToCalendar bool
}

// Create places a new booking.  Order of checks: authorization gate,
// advance-notice policy (skipped for administrators), conflict check,
// persist.  The conflict check and the writes share one transaction so
// two concurrent creates cannot both pass the check and commit.  Any
// failed check aborts with no partial write.
func (s *Service) Create(ctx context.Context, actor model.Actor, in Input) (*model.Booking, error) {
	if actor.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	if !in.StartsAt.Before(in.EndsAt) {
		return nil, ErrInvalidInterval
	}
	if !actor.HasOrgPerms(in.OrgID) {
		return nil, ErrForbidden
	}

	var created *model.Booking
	err := s.store.WithTx(ctx, func(txCtx context.Context) error {
		venue, err := s.store.GetVenue(txCtx, in.VenueID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin {
			if perr := schedule.CheckLeadTime(venue.Class, s.clock.Now(), in.StartsAt); perr != nil {
				return perr
			}
		}
		overlaps, err := s.store.FindOverlapping(txCtx, in.VenueID, in.StartsAt, in.EndsAt, 0)
		if err != nil {
			return err
		}
		if len(overlaps) > 0 {
			return ErrConflict
		}

		b := &model.Booking{
			Name:          in.Name,
			VenueID:       in.VenueID,
			OrgID:         in.OrgID,
			UserID:        actor.UserID,
			StartsAt:      in.StartsAt.UTC(),
			EndsAt:        in.EndsAt.UTC(),
			AddToCalendar: in.AddToCalendar,
		}
		if err := s.store.CreateBooking(txCtx, b); err != nil {
			return err
		}
		if in.AddToCalendar {
			if err := s.mirrorCreate(txCtx, b); err != nil {
				return err
			}
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Edit mutates an existing booking in place.  The authorization gate is
// applied against both the original and the new owning organisation so
// a booking can never be reassigned away from an organisation the actor
// does not control.  The conflict check excludes the booking itself,
// allowing an edit that keeps (or shrinks into) its current slot.
func (s *Service) Edit(ctx context.Context, actor model.Actor, id uint64, in Input) (*model.Booking, error) {
	if actor.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	if !in.StartsAt.Before(in.EndsAt) {
		return nil, ErrInvalidInterval
	}

	var edited *model.Booking
	err := s.store.WithTx(ctx, func(txCtx context.Context) error {
		b, err := s.store.GetBooking(txCtx, id)
		if err != nil {
			return err
		}
		if !actor.HasOrgPerms(b.OrgID) || !actor.HasOrgPerms(in.OrgID) {
			return ErrForbidden
		}
		venue, err := s.store.GetVenue(txCtx, in.VenueID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin {
			if perr := schedule.CheckLeadTime(venue.Class, s.clock.Now(), in.StartsAt); perr != nil {
				return perr
			}
		}
		overlaps, err := s.store.FindOverlapping(txCtx, in.VenueID, in.StartsAt, in.EndsAt, id)
		if err != nil {
			return err
		}
		if len(overlaps) > 0 {
			return ErrConflict
		}

		b.Name = in.Name
		b.VenueID = in.VenueID
		b.OrgID = in.OrgID
		b.StartsAt = in.StartsAt.UTC()
		b.EndsAt = in.EndsAt.UTC()
		b.AddToCalendar = in.AddToCalendar
		if err := s.store.UpdateBooking(txCtx, b); err != nil {
			return err
		}
		if err := s.reconcileMirror(txCtx, b); err != nil {
			return err
		}
		edited = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return edited, nil
}

// Delete removes a booking after the authorization gate and returns
// the removed booking.  The linked mirror event is always removed in
// the same transaction: an event must never outlive its parent booking,
// regardless of delete mode.
func (s *Service) Delete(ctx context.Context, actor model.Actor, id uint64) (*model.Booking, error) {
	if actor.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	var deleted *model.Booking
	err := s.store.WithTx(ctx, func(txCtx context.Context) error {
		b, err := s.store.GetBooking(txCtx, id)
		if err != nil {
			return err
		}
		if !actor.HasOrgPerms(b.OrgID) {
			return ErrForbidden
		}
		if err := s.store.DeleteEventByBooking(txCtx, id); err != nil {
			return err
		}
		deleted = b
		if s.deleteMode == SoftDelete {
			return s.store.MarkBookingDeleted(txCtx, id)
		}
		return s.store.DeleteBooking(txCtx, id)
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// mirrorCreate creates the mirror event for a freshly created booking
// and links it back via bookings.event_id.
func (s *Service) mirrorCreate(ctx context.Context, b *model.Booking) error {
	ev := &model.Event{
		Name:      b.Name,
		OrgID:     b.OrgID,
		StartsAt:  b.StartsAt,
		EndsAt:    b.EndsAt,
		BookingID: &b.ID,
	}
	if err := s.store.CreateEvent(ctx, ev); err != nil {
		return err
	}
	b.EventID = &ev.ID
	return s.store.SetBookingEvent(ctx, b.ID, b.EventID)
}

// reconcileMirror brings the event mirror in line with the booking
// after an edit: upsert when the calendar flag is set, remove any
// leftover event when it is not.
func (s *Service) reconcileMirror(ctx context.Context, b *model.Booking) error {
	ev, err := s.store.GetEventByBooking(ctx, b.ID)
	if err != nil {
		return err
	}
	if !b.AddToCalendar {
		if ev == nil {
			return nil
		}
		if err := s.store.DeleteEventByBooking(ctx, b.ID); err != nil {
			return err
		}
		b.EventID = nil
		return s.store.SetBookingEvent(ctx, b.ID, nil)
	}
	if ev == nil {
		return s.mirrorCreate(ctx, b)
	}
	ev.Name = b.Name
	ev.OrgID = b.OrgID
	ev.StartsAt = b.StartsAt
	ev.EndsAt = b.EndsAt
	if err := s.store.UpdateEvent(ctx, ev); err != nil {
		return err
	}
	b.EventID = &ev.ID
	return nil
}
