package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clubhub/booking-api/internal/clock"
	"github.com/clubhub/booking-api/internal/model"
	"github.com/clubhub/booking-api/internal/repository"
	"github.com/clubhub/booking-api/internal/schedule"
)

// PublicHandler serves the unauthenticated read views: the venue
// directory, per-venue timetables and the events calendar.  These
// routes sit behind the Redis response cache; booking mutations drop
// the cache so readers never see stale timetables longer than one TTL.
type PublicHandler struct {
	Venues   *repository.VenueRepo
	Bookings *repository.BookingStore
	Events   *repository.EventRepo
	Clock    clock.Clock
}

// NewPublicHandler constructs a PublicHandler.
func NewPublicHandler(venues *repository.VenueRepo, bookings *repository.BookingStore, events *repository.EventRepo, clk clock.Clock) *PublicHandler {
	return &PublicHandler{Venues: venues, Bookings: bookings, Events: events, Clock: clk}
}

// ListVenues handles GET /v1/venues.
func (h *PublicHandler) ListVenues(c echo.Context) error {
	venues, err := h.Venues.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "unexpected error, please contact an administrator"})
	}
	out := make([]echo.Map, 0, len(venues))
	for _, v := range venues {
		out = append(out, echo.Map{"id": v.ID, "name": v.Name, "class": v.Class})
	}
	return c.JSON(http.StatusOK, echo.Map{"venues": out})
}

// ListVenueBookings handles GET /v1/venues/:id/bookings?date=YYYY-MM-DD.
// It returns the venue's active bookings for one calendar day together
// with their grid slot indices, which is what the timetable needs to
// render a column.  Without a date parameter the current UTC day is
// used.
func (h *PublicHandler) ListVenueBookings(c echo.Context) error {
	venueID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || venueID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "id must be a positive integer"})
	}
	day := h.Clock.Now()
	if d := c.QueryParam("date"); d != "" {
		day, err = time.Parse("2006-01-02", d)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "date must be formatted YYYY-MM-DD"})
		}
	}
	y, m, d := day.UTC().Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	bookings, err := h.Bookings.ListByVenue(c.Request().Context(), venueID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "unexpected error, please contact an administrator"})
	}
	out := make([]echo.Map, 0, len(bookings))
	for i := range bookings {
		out = append(out, timetableEntry(&bookings[i], from, to))
	}
	return c.JSON(http.StatusOK, echo.Map{"date": from.Format("2006-01-02"), "bookings": out})
}

// timetableEntry renders one booking for the grid, clamping the slot
// range to the requested day for bookings that cross midnight.
func timetableEntry(b *model.Booking, from, to time.Time) echo.Map {
	start, end := b.StartsAt, b.EndsAt
	if start.Before(from) {
		start = from
	}
	if end.After(to) {
		end = to
	}
	firstSlot := schedule.SlotIndex(start)
	lastSlot := schedule.SlotIndex(end.Add(-time.Minute)) // end is exclusive
	return echo.Map{
		"id":              b.ID,
		"name":            b.Name,
		"organisation_id": b.OrgID,
		"start_time":      b.StartsAt.UTC().Format(time.RFC3339),
		"end_time":        b.EndsAt.UTC().Format(time.RFC3339),
		"first_slot":      firstSlot,
		"last_slot":       lastSlot,
	}
}

// ListEvents handles GET /v1/events and returns upcoming calendar
// entries, mirrored or directly created alike.
func (h *PublicHandler) ListEvents(c echo.Context) error {
	events, err := h.Events.ListUpcoming(c.Request().Context(), h.Clock.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "unexpected error, please contact an administrator"})
	}
	out := make([]echo.Map, 0, len(events))
	for _, ev := range events {
		entry := echo.Map{
			"id":              ev.ID,
			"name":            ev.Name,
			"organisation_id": ev.OrgID,
			"start_time":      ev.StartsAt.UTC().Format(time.RFC3339),
			"end_time":        ev.EndsAt.UTC().Format(time.RFC3339),
		}
		if ev.BookingID != nil {
			entry["booking_id"] = *ev.BookingID
		}
		out = append(out, entry)
	}
	return c.JSON(http.StatusOK, echo.Map{"events": out})
}
