package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"tripatlas/internal/config"
	"tripatlas/internal/db"
	"tripatlas/internal/models"
)

// TripHandler renders the owner's trip pages.
type TripHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewTripHandler creates a new trip page handler.
func NewTripHandler(database *db.DB, cfg *config.Config) *TripHandler {
	return &TripHandler{db: database, cfg: cfg}
}

// Index renders the dashboard with the user's trips.
func (h *TripHandler) Index(c fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	trips, err := h.db.ListTripsByOwner(c.Context(), user.ID)
	if err != nil {
		return err
	}

	return c.Render("trips", MergeBranding(fiber.Map{
		"Title": "My Trips",
		"User":  user,
		"Trips": trips,
	}, h.cfg))
}

// Show renders a single trip with its moments. Owners only; external
// visitors go through the share link resolution path instead.
func (h *TripHandler) Show(c fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid trip ID")
	}

	trip, err := h.db.GetTripByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrTripNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Trip not found")
		}
		return err
	}

	if trip.OwnerID != user.ID {
		return fiber.NewError(fiber.StatusForbidden, "Not authorized")
	}

	moments, err := h.db.GetTripMoments(c.Context(), trip.ID)
	if err != nil {
		return err
	}

	return c.Render("trip", MergeBranding(fiber.Map{
		"Title":   trip.Title,
		"User":    user,
		"Trip":    trip,
		"Moments": moments,
	}, h.cfg))
}
