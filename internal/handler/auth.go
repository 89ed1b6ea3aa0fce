package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clubhub/booking-api/internal/middleware"
	"github.com/clubhub/booking-api/internal/repository"
	"github.com/clubhub/booking-api/internal/utils"
)

// AuthHandler implements the session provider: it verifies credentials
// and issues the JWT that carries the actor's identity, admin flag and
// organisation memberships.  The booking subsystem treats that token's
// contents as fully trusted input.
type AuthHandler struct {
	Users        *repository.UserRepo
	JWTSecret    string
	AccessTTLMin int
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(users *repository.UserRepo, secret string, ttlMin int) *AuthHandler {
	return &AuthHandler{Users: users, JWTSecret: secret, AccessTTLMin: ttlMin}
}

// Login handles POST /v1/auth/login.  On valid credentials it returns
// an access token whose claims include the user's organisation IDs.
func (h *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}
	email := strings.TrimSpace(strings.ToLower(body.Email))
	if email == "" || body.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "email and password are required"})
	}

	u, err := h.Users.GetByEmail(c.Request().Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same message as a bad password so the endpoint does not
			// reveal which emails exist.
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "unexpected error, please contact an administrator"})
	}
	if !utils.CheckPassword(u.PasswordHash, body.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid credentials"})
	}

	orgs, err := h.Users.OrgIDs(c.Request().Context(), u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "unexpected error, please contact an administrator"})
	}
	tok, err := utils.NewAccessToken(h.JWTSecret, u.ID, u.IsAdmin, orgs, h.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "unexpected error, please contact an administrator"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"access_token": tok.Token,
		"expires_at":   tok.Exp.Format(time.RFC3339),
	})
}

// Me handles GET /v1/me and echoes the actor derived from the token, so
// clients can inspect which organisations they may book for.
func (h *AuthHandler) Me(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":  actor.UserID,
		"is_admin": actor.IsAdmin,
		"org_ids":  actor.OrgIDs,
	})
}
