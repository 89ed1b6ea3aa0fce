package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/clubhub/booking-api/internal/model"
	"github.com/clubhub/booking-api/internal/utils"
)

const testSecret = "test-secret"

// runAuth sends a request through ActorAuth and captures the actor the
// wrapped handler saw.
func runAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, *model.Actor) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *model.Actor
	handler := ActorAuth(testSecret)(func(c echo.Context) error {
		if actor, ok := GetActor(c); ok {
			seen = &actor
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec, seen
}

func TestActorAuth(t *testing.T) {
	t.Run("valid token yields the actor", func(t *testing.T) {
		tok, err := utils.NewAccessToken(testSecret, 10, false, []uint64{100, 200}, 15)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		rec, actor := runAuth(t, "Bearer "+tok.Token)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if actor == nil {
			t.Fatal("handler saw no actor")
		}
		if actor.UserID != 10 || actor.IsAdmin {
			t.Errorf("actor = %+v", actor)
		}
		if len(actor.OrgIDs) != 2 || actor.OrgIDs[0] != 100 || actor.OrgIDs[1] != 200 {
			t.Errorf("orgs = %v", actor.OrgIDs)
		}
	})

	t.Run("admin flag survives the round trip", func(t *testing.T) {
		tok, err := utils.NewAccessToken(testSecret, 1, true, nil, 15)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		_, actor := runAuth(t, "Bearer "+tok.Token)
		if actor == nil || !actor.IsAdmin {
			t.Fatalf("actor = %+v", actor)
		}
		if !actor.HasOrgPerms(999) {
			t.Error("admin denied on a foreign organisation")
		}
	})

	t.Run("missing header", func(t *testing.T) {
		rec, actor := runAuth(t, "")
		if rec.Code != http.StatusUnauthorized || actor != nil {
			t.Fatalf("status = %d, actor = %+v", rec.Code, actor)
		}
	})

	t.Run("wrong scheme", func(t *testing.T) {
		rec, _ := runAuth(t, "Basic dXNlcjpwYXNz")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("wrong signing key", func(t *testing.T) {
		tok, err := utils.NewAccessToken("other-secret", 10, false, []uint64{100}, 15)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		rec, actor := runAuth(t, "Bearer "+tok.Token)
		if rec.Code != http.StatusUnauthorized || actor != nil {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub": 10,
			"exp": time.Now().UTC().Add(-time.Minute).Unix(),
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		rec, _ := runAuth(t, "Bearer "+signed)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("unsigned token", func(t *testing.T) {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": 10}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		rec, _ := runAuth(t, "Bearer "+signed)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	t.Run("admin passes", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/v1/venues", nil), httptest.NewRecorder())
		c.Set(actorKey, model.Actor{UserID: 1, IsAdmin: true})
		if err := RequireAdmin()(next)(c); err != nil {
			t.Fatalf("err = %v", err)
		}
		if c.Response().Status != http.StatusOK {
			t.Fatalf("status = %d", c.Response().Status)
		}
	})

	t.Run("member is forbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/v1/venues", nil), rec)
		c.Set(actorKey, model.Actor{UserID: 10, OrgIDs: []uint64{100}})
		if err := RequireAdmin()(next)(c); err != nil {
			t.Fatalf("err = %v", err)
		}
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("no actor is forbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/v1/venues", nil), rec)
		if err := RequireAdmin()(next)(c); err != nil {
			t.Fatalf("err = %v", err)
		}
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}
