package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/clubhub/booking-api/internal/config"
	"github.com/clubhub/booking-api/internal/handler"    // import the handlers that implement business logic
	"github.com/clubhub/booking-api/internal/middleware" // import middleware for JWT authentication and caching
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// The health endpoint lets load balancers and monitoring verify that
	// the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints.  Login is
// unauthenticated; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	e.POST("/v1/auth/login", a.Login)

	auth := e.Group("/v1")
	auth.Use(middleware.ActorAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterBookings registers the three booking mutations.  All of them
// require a valid access token; the authorization gate inside the
// lifecycle service decides per-organisation permissions.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1/bookings")
	g.Use(middleware.ActorAuth(jwtSecret))
	g.POST("", b.Create)
	g.PUT("/:id", b.Edit)
	g.DELETE("/:id", b.Delete)
}

// RegisterVenues registers venue administration (administrators only).
func RegisterVenues(e *echo.Echo, v *handler.VenueHandler, jwtSecret string) {
	g := e.Group("/v1/venues")
	g.Use(middleware.ActorAuth(jwtSecret))
	g.Use(middleware.RequireAdmin())
	g.POST("", v.CreateVenue)
}

// RegisterPublic registers the unauthenticated read views behind the
// Redis response cache.  The cache client may be nil, in which case the
// middleware is a no-op and reads always hit the database.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	cached := middleware.NewRedisCache(cacheCfg, rdb)
	// Venue directory for the booking form's venue picker
	e.GET("/v1/venues", p.ListVenues, cached)
	// One day of a venue's timetable column
	e.GET("/v1/venues/:id/bookings", p.ListVenueBookings, cached)
	// Upcoming public events calendar
	e.GET("/v1/events", p.ListEvents, cached)
}
