package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clubhub/booking-api/internal/model"
	"github.com/clubhub/booking-api/internal/repository"
	"github.com/clubhub/booking-api/internal/schedule"
)

// VenueHandler exposes venue administration.  Venue creation is the one
// place the name classifier runs: the resolved class is stored on the
// row and policy checks read it from there ever after.
type VenueHandler struct {
	Venues *repository.VenueRepo
}

// NewVenueHandler constructs a VenueHandler.
func NewVenueHandler(venues *repository.VenueRepo) *VenueHandler {
	return &VenueHandler{Venues: venues}
}

// CreateVenue handles POST /v1/venues (administrators only).
func (h *VenueHandler) CreateVenue(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "name is required"})
	}

	v := &model.Venue{Name: name, Class: schedule.Classify(name)}
	if err := h.Venues.Create(c.Request().Context(), v); err != nil {
		if errors.Is(err, repository.ErrVenueExists) {
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "a venue with this name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "unexpected error, please contact an administrator"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "venue created",
		"venue": echo.Map{
			"id":    v.ID,
			"name":  v.Name,
			"class": v.Class,
		},
	})
}
