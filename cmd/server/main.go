package main // Entry point package

import (
	"log" // Logging library

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/clubhub/booking-api/internal/booking"
	"github.com/clubhub/booking-api/internal/clock"
	"github.com/clubhub/booking-api/internal/config"
	"github.com/clubhub/booking-api/internal/database"
	"github.com/clubhub/booking-api/internal/handler"
	"github.com/clubhub/booking-api/internal/queue"
	"github.com/clubhub/booking-api/internal/repository"
	"github.com/clubhub/booking-api/internal/router"
)

func main() {
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables the response cache and
	// the invalidation signal but never blocks startup.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache disabled")
	}
	cacheCfg := config.LoadCacheConfig()

	// Repositories and the booking lifecycle service
	store := repository.NewBookingStore(db)
	venues := repository.NewVenueRepo(db)
	events := repository.NewEventRepo(db)
	users := repository.NewUserRepo(db)
	clk := clock.NewSystem()
	svc := booking.NewService(store, clk, booking.WithDeleteMode(booking.DeleteMode(cfg.DeleteMode)))

	// Handlers
	authH := handler.NewAuthHandler(users, cfg.JWTSecret, cfg.AccessTTLMin)
	bookingH := handler.NewBookingHandler(svc, rdb, cacheCfg.Prefix)
	venueH := handler.NewVenueHandler(venues)
	publicH := handler.NewPublicHandler(venues, store, events, clk)

	// Background consumer appending booking.changed events to the audit log
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterBookings(e, bookingH, cfg.JWTSecret)
	router.RegisterVenues(e, venueH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, cacheCfg, rdb)

	addr := ":" + cfg.Port                                                            // Address string with port
	log.Printf("listening on %s (env=%s, delete_mode=%s)", addr, cfg.Env, cfg.DeleteMode) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
