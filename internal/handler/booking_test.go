package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/clubhub/booking-api/internal/booking"
	"github.com/clubhub/booking-api/internal/model"
	"github.com/clubhub/booking-api/internal/schedule"
)

// stubService lets each test script the lifecycle outcome.
type stubService struct {
	createFn func(ctx context.Context, actor model.Actor, in booking.Input) (*model.Booking, error)
	editFn   func(ctx context.Context, actor model.Actor, id uint64, in booking.Input) (*model.Booking, error)
	deleteFn func(ctx context.Context, actor model.Actor, id uint64) (*model.Booking, error)
}

func (s *stubService) Create(ctx context.Context, actor model.Actor, in booking.Input) (*model.Booking, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubService) Edit(ctx context.Context, actor model.Actor, id uint64, in booking.Input) (*model.Booking, error) {
	return s.editFn(ctx, actor, id, in)
}

func (s *stubService) Delete(ctx context.Context, actor model.Actor, id uint64) (*model.Booking, error) {
	return s.deleteFn(ctx, actor, id)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Booking json.RawMessage `json:"booking"`
}

func newTestHandler(svc BookingService) *BookingHandler {
	// Redis nil and Publish false: no side effects in tests.
	return &BookingHandler{Service: svc, Validate: validator.New()}
}

func doRequest(t *testing.T, method, target, body string, actor *model.Actor, params map[string]string, fn echo.HandlerFunc) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actor != nil {
		c.Set("actor", *actor)
	}
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	if err := fn(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return rec, env
}

var (
	testActor = model.Actor{UserID: 10, OrgIDs: []uint64{100}}

	validBody = `{
		"name": "Board games night",
		"organisation_id": 100,
		"venue_id": 1,
		"start_time": "2026-03-09T14:00:00Z",
		"end_time": "2026-03-09T16:00:00Z",
		"add_to_calendar": false
	}`
)

func sampleBooking() *model.Booking {
	return &model.Booking{
		ID:       7,
		Name:     "Board games night",
		VenueID:  1,
		OrgID:    100,
		UserID:   10,
		StartsAt: time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 3, 9, 16, 0, 0, 0, time.UTC),
	}
}

func TestBookingHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &stubService{createFn: func(ctx context.Context, actor model.Actor, in booking.Input) (*model.Booking, error) {
			if actor.UserID != testActor.UserID {
				t.Errorf("actor = %+v", actor)
			}
			if in.Name != "Board games night" || in.OrgID != 100 || in.VenueID != 1 {
				t.Errorf("input = %+v", in)
			}
			if !in.StartsAt.Equal(time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC)) {
				t.Errorf("start = %v", in.StartsAt)
			}
			return sampleBooking(), nil
		}}
		h := newTestHandler(svc)

		rec, env := doRequest(t, http.MethodPost, "/v1/bookings", validBody, &testActor, nil, h.Create)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if !env.Success || env.Message != "booking created" {
			t.Errorf("envelope = %+v", env)
		}
		var view struct {
			ID        uint64 `json:"id"`
			StartTime string `json:"start_time"`
		}
		if err := json.Unmarshal(env.Booking, &view); err != nil {
			t.Fatalf("booking payload: %v", err)
		}
		if view.ID != 7 || view.StartTime != "2026-03-09T14:00:00Z" {
			t.Errorf("view = %+v", view)
		}
	})

	t.Run("no actor means unauthorized", func(t *testing.T) {
		h := newTestHandler(&stubService{})
		rec, env := doRequest(t, http.MethodPost, "/v1/bookings", validBody, nil, nil, h.Create)
		if rec.Code != http.StatusUnauthorized || env.Success {
			t.Fatalf("status = %d, env = %+v", rec.Code, env)
		}
	})

	t.Run("validation failures name the field", func(t *testing.T) {
		cases := []struct {
			name string
			body string
			want string
		}{
			{"missing name", `{"organisation_id":100,"venue_id":1,"start_time":"2026-03-09T14:00:00Z","end_time":"2026-03-09T16:00:00Z","add_to_calendar":false}`, "name is required"},
			{"missing organisation", `{"name":"x","venue_id":1,"start_time":"2026-03-09T14:00:00Z","end_time":"2026-03-09T16:00:00Z","add_to_calendar":false}`, "organisation_id is required"},
			{"missing venue", `{"name":"x","organisation_id":100,"start_time":"2026-03-09T14:00:00Z","end_time":"2026-03-09T16:00:00Z","add_to_calendar":false}`, "venue_id is required"},
			{"missing calendar flag", `{"name":"x","organisation_id":100,"venue_id":1,"start_time":"2026-03-09T14:00:00Z","end_time":"2026-03-09T16:00:00Z"}`, "add_to_calendar is required"},
			{"bad start", `{"name":"x","organisation_id":100,"venue_id":1,"start_time":"tomorrow","end_time":"2026-03-09T16:00:00Z","add_to_calendar":false}`, "start_time must be a valid RFC3339 timestamp"},
			{"bad end", `{"name":"x","organisation_id":100,"venue_id":1,"start_time":"2026-03-09T14:00:00Z","end_time":"soon","add_to_calendar":false}`, "end_time must be a valid RFC3339 timestamp"},
			{"end before start", `{"name":"x","organisation_id":100,"venue_id":1,"start_time":"2026-03-09T16:00:00Z","end_time":"2026-03-09T14:00:00Z","add_to_calendar":false}`, "end_time must be after start_time"},
			{"not json", `bookings please`, "invalid request body"},
		}
		h := newTestHandler(&stubService{createFn: func(context.Context, model.Actor, booking.Input) (*model.Booking, error) {
			t.Fatal("service reached despite invalid payload")
			return nil, nil
		}})
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				rec, env := doRequest(t, http.MethodPost, "/v1/bookings", tc.body, &testActor, nil, h.Create)
				if rec.Code != http.StatusBadRequest {
					t.Fatalf("status = %d", rec.Code)
				}
				if env.Success || env.Message != tc.want {
					t.Errorf("message = %q, want %q", env.Message, tc.want)
				}
			})
		}
	})

	t.Run("error mapping", func(t *testing.T) {
		cases := []struct {
			name    string
			err     error
			status  int
			message string
		}{
			{"forbidden", booking.ErrForbidden, http.StatusForbidden, "you do not have permission to book for this organisation"},
			{"unknown booking", booking.ErrNotFound, http.StatusNotFound, "invalid booking"},
			{"unknown venue", booking.ErrVenueNotFound, http.StatusNotFound, booking.ErrVenueNotFound.Error()},
			{"conflict", booking.ErrConflict, http.StatusConflict, "venue is already booked for that time"},
			{"inverted interval", booking.ErrInvalidInterval, http.StatusBadRequest, booking.ErrInvalidInterval.Error()},
			{"policy", &schedule.PolicyError{Class: model.VenueClassStandard, Required: 7, Actual: 2}, http.StatusUnprocessableEntity, "venue bookings must be made at least 7 days in advance"},
			{"unexpected", errors.New("db gone"), http.StatusInternalServerError, "unexpected error, please contact an administrator"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				h := newTestHandler(&stubService{createFn: func(context.Context, model.Actor, booking.Input) (*model.Booking, error) {
					return nil, tc.err
				}})
				rec, env := doRequest(t, http.MethodPost, "/v1/bookings", validBody, &testActor, nil, h.Create)
				if rec.Code != tc.status {
					t.Fatalf("status = %d, want %d", rec.Code, tc.status)
				}
				if env.Success || env.Message != tc.message {
					t.Errorf("message = %q, want %q", env.Message, tc.message)
				}
			})
		}
	})
}

func TestBookingHandler_Edit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &stubService{editFn: func(ctx context.Context, actor model.Actor, id uint64, in booking.Input) (*model.Booking, error) {
			if id != 7 {
				t.Errorf("id = %d", id)
			}
			return sampleBooking(), nil
		}}
		h := newTestHandler(svc)
		rec, env := doRequest(t, http.MethodPut, "/v1/bookings/7", validBody, &testActor, map[string]string{"id": "7"}, h.Edit)
		if rec.Code != http.StatusOK || !env.Success || env.Message != "booking updated" {
			t.Fatalf("status = %d, env = %+v", rec.Code, env)
		}
	})

	t.Run("rejects a non-numeric id", func(t *testing.T) {
		h := newTestHandler(&stubService{})
		for _, id := range []string{"abc", "0", "-1", ""} {
			rec, env := doRequest(t, http.MethodPut, "/v1/bookings/"+id, validBody, &testActor, map[string]string{"id": id}, h.Edit)
			if rec.Code != http.StatusBadRequest || env.Message != "id must be a positive integer" {
				t.Errorf("id %q: status = %d, message = %q", id, rec.Code, env.Message)
			}
		}
	})
}

func TestBookingHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotID uint64
		svc := &stubService{deleteFn: func(ctx context.Context, actor model.Actor, id uint64) (*model.Booking, error) {
			gotID = id
			return sampleBooking(), nil
		}}
		h := newTestHandler(svc)
		rec, env := doRequest(t, http.MethodDelete, "/v1/bookings/7", "", &testActor, map[string]string{"id": "7"}, h.Delete)
		if rec.Code != http.StatusOK || !env.Success || env.Message != "booking deleted" {
			t.Fatalf("status = %d, env = %+v", rec.Code, env)
		}
		if gotID != 7 {
			t.Errorf("service received id %d", gotID)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc := &stubService{deleteFn: func(context.Context, model.Actor, uint64) (*model.Booking, error) {
			return nil, booking.ErrNotFound
		}}
		h := newTestHandler(svc)
		rec, env := doRequest(t, http.MethodDelete, "/v1/bookings/42", "", &testActor, map[string]string{"id": "42"}, h.Delete)
		if rec.Code != http.StatusNotFound || env.Message != "invalid booking" {
			t.Fatalf("status = %d, env = %+v", rec.Code, env)
		}
	})
}
