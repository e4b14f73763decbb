package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"tripatlas/internal/config"
	"tripatlas/internal/db"
	"tripatlas/internal/models"
)

// ProfileHandler handles the user's own profile page.
type ProfileHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(database *db.DB, cfg *config.Config) *ProfileHandler {
	return &ProfileHandler{db: database, cfg: cfg}
}

// Show renders the user's profile page with their trips and recent share
// link activity.
func (h *ProfileHandler) Show(c fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	trips, err := h.db.ListTripsByOwner(c.Context(), user.ID)
	if err != nil {
		return err
	}

	events, err := h.db.GetAuditEventsByOwner(c.Context(), user.ID, 20)
	if err != nil {
		return err
	}

	return c.Render("profile", MergeBranding(fiber.Map{
		"Title":  "Profile",
		"User":   user,
		"Trips":  trips,
		"Events": events,
	}, h.cfg))
}

// Update saves the editable profile fields and re-renders the page.
func (h *ProfileHandler) Update(c fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	bio := strings.TrimSpace(c.FormValue("bio"))
	homeLocation := strings.TrimSpace(c.FormValue("home_location"))

	if len(bio) > 1000 {
		return fiber.NewError(fiber.StatusBadRequest, "Bio is too long")
	}
	if len(homeLocation) > 200 {
		return fiber.NewError(fiber.StatusBadRequest, "Home location is too long")
	}

	if err := h.db.UpdateUserProfile(c.Context(), user.ID, bio, homeLocation); err != nil {
		return err
	}

	return c.Redirect().To("/profile")
}
