package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
	"github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers

	"github.com/clubhub/booking-api/internal/model"
)

// actorKey is the context key under which the authenticated actor is stored.
const actorKey = "actor"

// ActorAuth returns an Echo middleware that validates a Bearer access
// token and injects the acting identity into the request context.  The
// provided secret must match the one used when issuing tokens.  This
// middleware should wrap every mutation route so that handlers can
// retrieve the trusted actor via GetActor.
func ActorAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid Authorization header starts with "Bearer " followed
			// by the JWT.  Anything else is rejected with 401.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Parse with HS256 only; a token signed with any other method
			// is rejected.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid claims"})
			}

			actor, ok := actorFromClaims(claims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid claims"})
			}
			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// GetActor retrieves the authenticated actor stored by ActorAuth.  The
// boolean is false when the route was not wrapped by the middleware.
func GetActor(c echo.Context) (model.Actor, bool) {
	actor, ok := c.Get(actorKey).(model.Actor)
	return actor, ok
}

// RequireAdmin returns a middleware that aborts with 403 unless the
// authenticated actor is a portal administrator.  It assumes ActorAuth
// ran earlier in the chain.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := GetActor(c)
			if !ok || !actor.IsAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "forbidden"})
			}
			return next(c)
		}
	}
}

// actorFromClaims rebuilds a model.Actor from the token claims.  JSON
// numbers arrive as float64; org IDs are carried in an array under
// "orgs" and the admin flag under "adm".
func actorFromClaims(claims jwt.MapClaims) (model.Actor, bool) {
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return model.Actor{}, false
	}
	actor := model.Actor{UserID: uint64(sub)}
	if adm, ok := claims["adm"].(bool); ok {
		actor.IsAdmin = adm
	}
	if raw, ok := claims["orgs"].([]interface{}); ok {
		for _, v := range raw {
			if f, ok := v.(float64); ok && f > 0 {
				actor.OrgIDs = append(actor.OrgIDs, uint64(f))
			}
		}
	}
	return actor, true
}
