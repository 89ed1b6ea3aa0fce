package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/clubhub/booking-api/internal/booking"
	"github.com/clubhub/booking-api/internal/middleware"
	"github.com/clubhub/booking-api/internal/model"
	"github.com/clubhub/booking-api/internal/queue"
	"github.com/clubhub/booking-api/internal/schedule"
	queue_publisher "github.com/clubhub/booking-api/internal/service"
)

// BookingService is the slice of the lifecycle service the handler
// needs; tests substitute a stub.
type BookingService interface {
	Create(ctx context.Context, actor model.Actor, in booking.Input) (*model.Booking, error)
	Edit(ctx context.Context, actor model.Actor, id uint64, in booking.Input) (*model.Booking, error)
	Delete(ctx context.Context, actor model.Actor, id uint64) (*model.Booking, error)
}

// BookingHandler exposes the three booking mutations.  Every response
// uses the uniform {success, message} envelope; successful mutations
// additionally return the booking and trigger the fire-and-forget
// read-view invalidation and the booking.changed publication.
type BookingHandler struct {
	Service     BookingService
	Validate    *validator.Validate
	Redis       *redis.Client // may be nil; invalidation is then skipped
	CachePrefix string
	Publish     bool // disabled in tests
}

// NewBookingHandler constructs a BookingHandler with a fresh validator.
func NewBookingHandler(svc BookingService, rdb *redis.Client, cachePrefix string) *BookingHandler {
	return &BookingHandler{
		Service:     svc,
		Validate:    validator.New(),
		Redis:       rdb,
		CachePrefix: cachePrefix,
		Publish:     true,
	}
}

// bookingRequest is the JSON payload for create and edit.  Validation
// runs before any side effect; failures name the offending field.
type bookingRequest struct {
	Name          string `json:"name" validate:"required,max=120"`
	OrgID         uint64 `json:"organisation_id" validate:"required,gt=0"`
	VenueID       uint64 `json:"venue_id" validate:"required,gt=0"`
	StartTime     string `json:"start_time" validate:"required"`
	EndTime       string `json:"end_time" validate:"required"`
	AddToCalendar *bool  `json:"add_to_calendar" validate:"required"`
}

// bookingJSON is the success payload view of a booking.
type bookingJSON struct {
	ID            uint64  `json:"id"`
	Name          string  `json:"name"`
	VenueID       uint64  `json:"venue_id"`
	OrgID         uint64  `json:"organisation_id"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	AddToCalendar bool    `json:"add_to_calendar"`
	EventID       *uint64 `json:"event_id,omitempty"`
}

func viewOf(b *model.Booking) bookingJSON {
	return bookingJSON{
		ID:            b.ID,
		Name:          b.Name,
		VenueID:       b.VenueID,
		OrgID:         b.OrgID,
		StartTime:     b.StartsAt.UTC().Format(time.RFC3339),
		EndTime:       b.EndsAt.UTC().Format(time.RFC3339),
		AddToCalendar: b.AddToCalendar,
		EventID:       b.EventID,
	}
}

// parse binds and validates the request body and converts it into a
// lifecycle input.  The returned message is non-empty on failure and
// names the field that failed.
func (h *BookingHandler) parse(c echo.Context) (booking.Input, string) {
	var body bookingRequest
	if err := c.Bind(&body); err != nil {
		return booking.Input{}, "invalid request body"
	}
	body.Name = strings.TrimSpace(body.Name)
	if err := h.Validate.Struct(&body); err != nil {
		return booking.Input{}, validationMessage(err)
	}
	start, err := time.Parse(time.RFC3339, body.StartTime)
	if err != nil {
		return booking.Input{}, "start_time must be a valid RFC3339 timestamp"
	}
	end, err := time.Parse(time.RFC3339, body.EndTime)
	if err != nil {
		return booking.Input{}, "end_time must be a valid RFC3339 timestamp"
	}
	if !start.Before(end) {
		return booking.Input{}, "end_time must be after start_time"
	}
	return booking.Input{
		Name:          body.Name,
		OrgID:         body.OrgID,
		VenueID:       body.VenueID,
		StartsAt:      start.UTC(),
		EndsAt:        end.UTC(),
		AddToCalendar: *body.AddToCalendar,
	}, ""
}

// validationMessage renders the first validator error as a field-level
// message, e.g. "organisation_id is required".
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request body"
	}
	fe := verrs[0]
	field := jsonFieldName(fe.StructField())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return field + " must be a positive integer"
	case "max":
		return field + " is too long"
	}
	return field + " is invalid"
}

func jsonFieldName(structField string) string {
	switch structField {
	case "Name":
		return "name"
	case "OrgID":
		return "organisation_id"
	case "VenueID":
		return "venue_id"
	case "StartTime":
		return "start_time"
	case "EndTime":
		return "end_time"
	case "AddToCalendar":
		return "add_to_calendar"
	}
	return strings.ToLower(structField)
}

// Create handles POST /v1/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	in, msg := h.parse(c)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": msg})
	}
	b, err := h.Service.Create(c.Request().Context(), actor, in)
	if err != nil {
		return h.respondError(c, err)
	}
	h.afterMutation(queue.ActionCreated, b)
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "message": "booking created", "booking": viewOf(b)})
}

// Edit handles PUT /v1/bookings/:id.
func (h *BookingHandler) Edit(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "id must be a positive integer"})
	}
	in, msg := h.parse(c)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": msg})
	}
	b, err := h.Service.Edit(c.Request().Context(), actor, id, in)
	if err != nil {
		return h.respondError(c, err)
	}
	h.afterMutation(queue.ActionUpdated, b)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "booking updated", "booking": viewOf(b)})
}

// Delete handles DELETE /v1/bookings/:id.
func (h *BookingHandler) Delete(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "id must be a positive integer"})
	}
	b, err := h.Service.Delete(c.Request().Context(), actor, id)
	if err != nil {
		return h.respondError(c, err)
	}
	h.afterMutation(queue.ActionDeleted, b)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "booking deleted"})
}

// respondError translates lifecycle errors into the uniform envelope.
// Unexpected errors are logged server-side and collapsed to a generic
// message so no internal detail leaks to the client.
func (h *BookingHandler) respondError(c echo.Context, err error) error {
	var perr *schedule.PolicyError
	switch {
	case errors.Is(err, booking.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	case errors.Is(err, booking.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "you do not have permission to book for this organisation"})
	case errors.Is(err, booking.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": booking.ErrNotFound.Error()})
	case errors.Is(err, booking.ErrVenueNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": booking.ErrVenueNotFound.Error()})
	case errors.Is(err, booking.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": booking.ErrConflict.Error()})
	case errors.Is(err, booking.ErrInvalidInterval):
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": booking.ErrInvalidInterval.Error()})
	case errors.As(err, &perr):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"success": false, "message": perr.Error()})
	}
	log.Printf("booking: unexpected error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "unexpected error, please contact an administrator"})
}

// afterMutation signals that stored state changed: it drops the cached
// read views and publishes a booking.changed event.  Both actions are
// fire-and-forget; failures are logged inside the helpers and never
// affect the response.
func (h *BookingHandler) afterMutation(action string, b *model.Booking) {
	if h.Redis != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			middleware.Invalidate(ctx, h.Redis, h.CachePrefix)
		}()
	}
	if h.Publish {
		ev := queue.BookingChangedEvent{
			Action:        action,
			BookingID:     b.ID,
			Name:          b.Name,
			VenueID:       b.VenueID,
			OrgID:         b.OrgID,
			UserID:        b.UserID,
			StartsAt:      b.StartsAt.UTC().Format(time.RFC3339),
			EndsAt:        b.EndsAt.UTC().Format(time.RFC3339),
			AddToCalendar: b.AddToCalendar,
			ChangedAt:     time.Now().UTC().Format(time.RFC3339),
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = queue_publisher.PublishBookingChanged(ctx, ev)
		}()
	}
}
