package api

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"tripatlas/internal/config"
	"tripatlas/internal/db"
	"tripatlas/internal/models"
	"tripatlas/internal/validation"
)

// TripHandler handles trip CRUD operations via JSON API.
type TripHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewTripHandler creates a new API trip handler.
func NewTripHandler(database *db.DB, cfg *config.Config) *TripHandler {
	return &TripHandler{db: database, cfg: cfg}
}

type tripBody struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	LocationName string     `json:"location_name"`
	Latitude     *float64   `json:"latitude"`
	Longitude    *float64   `json:"longitude"`
	StartedOn    *time.Time `json:"started_on"`
	EndedOn      *time.Time `json:"ended_on"`
	CoverURL     string     `json:"cover_url"`
	Visibility   string     `json:"visibility"`
}

func (b *tripBody) validate() (bool, string) {
	if !validation.ValidateTripTitle(b.Title) {
		return false, "title is required (max 200 characters)"
	}
	if !validation.ValidateCoordinates(b.Latitude, b.Longitude) {
		return false, "latitude and longitude must be a valid pair"
	}
	if !validation.ValidateDateRange(b.StartedOn, b.EndedOn) {
		return false, "ended_on must not precede started_on"
	}
	if b.CoverURL != "" {
		if valid, msg := validation.ValidateURL(b.CoverURL); !valid {
			return false, msg
		}
	}
	if b.Visibility != "" && b.Visibility != models.VisibilityPrivate && b.Visibility != models.VisibilityPublic {
		return false, "visibility must be 'private' or 'public'"
	}
	return true, ""
}

// List returns the authenticated user's trips.
func (h *TripHandler) List(c fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	trips, err := h.db.ListTripsByOwner(c.Context(), user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch trips")
	}

	return jsonSuccess(c, trips)
}

// Get returns a single trip with its moments.
func (h *TripHandler) Get(c fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	trip := h.ownedTrip(c, user)
	if trip == nil {
		return nil
	}

	moments, err := h.db.GetTripMoments(c.Context(), trip.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch moments")
	}

	return jsonSuccess(c, models.TripWithMoments{Trip: trip, Moments: moments})
}

// Create creates a new trip for the authenticated user.
func (h *TripHandler) Create(c fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var body tripBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if valid, msg := body.validate(); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	trip := &models.Trip{
		OwnerID:      user.ID,
		Title:        body.Title,
		Description:  body.Description,
		LocationName: body.LocationName,
		Latitude:     body.Latitude,
		Longitude:    body.Longitude,
		StartedOn:    body.StartedOn,
		EndedOn:      body.EndedOn,
		CoverURL:     body.CoverURL,
		Visibility:   body.Visibility,
	}

	if err := h.db.CreateTrip(c.Context(), trip); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create trip")
	}

	return jsonSuccess(c, trip)
}

// Update updates a trip the user owns.
func (h *TripHandler) Update(c fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	trip := h.ownedTrip(c, user)
	if trip == nil {
		return nil
	}

	var body tripBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if valid, msg := body.validate(); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	trip.Title = body.Title
	trip.Description = body.Description
	trip.LocationName = body.LocationName
	trip.Latitude = body.Latitude
	trip.Longitude = body.Longitude
	trip.StartedOn = body.StartedOn
	trip.EndedOn = body.EndedOn
	trip.CoverURL = body.CoverURL
	if body.Visibility != "" {
		trip.Visibility = body.Visibility
	}

	if err := h.db.UpdateTrip(c.Context(), trip); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to update trip")
	}

	return jsonSuccess(c, trip)
}

// Delete removes a trip. Its moments and trip-scope share links go with it.
func (h *TripHandler) Delete(c fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	trip := h.ownedTrip(c, user)
	if trip == nil {
		return nil
	}

	if err := h.db.DeleteTrip(c.Context(), trip.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete trip")
	}

	return jsonSuccess(c, fiber.Map{"deleted": true})
}

// AddMoment appends a moment to a trip the user owns.
func (h *TripHandler) AddMoment(c fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	trip := h.ownedTrip(c, user)
	if trip == nil {
		return nil
	}

	var body struct {
		Caption   string     `json:"caption"`
		MediaURL  string     `json:"media_url"`
		Latitude  *float64   `json:"latitude"`
		Longitude *float64   `json:"longitude"`
		TakenAt   *time.Time `json:"taken_at"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.MediaURL != "" {
		if valid, msg := validation.ValidateURL(body.MediaURL); !valid {
			return jsonError(c, fiber.StatusBadRequest, msg)
		}
	}
	if !validation.ValidateCoordinates(body.Latitude, body.Longitude) {
		return jsonError(c, fiber.StatusBadRequest, "latitude and longitude must be a valid pair")
	}

	moment := &models.Moment{
		TripID:    trip.ID,
		Caption:   body.Caption,
		MediaURL:  body.MediaURL,
		Latitude:  body.Latitude,
		Longitude: body.Longitude,
		TakenAt:   body.TakenAt,
	}

	if err := h.db.CreateMoment(c.Context(), moment); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to add moment")
	}

	return jsonSuccess(c, moment)
}

// DeleteMoment removes a moment from a trip the user owns.
func (h *TripHandler) DeleteMoment(c fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	trip := h.ownedTrip(c, user)
	if trip == nil {
		return nil
	}

	momentID, err := uuid.Parse(c.Params("momentId"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid moment id")
	}

	if err := h.db.DeleteMoment(c.Context(), momentID, trip.ID); err != nil {
		if errors.Is(err, db.ErrMomentNotFound) {
			return jsonError(c, fiber.StatusNotFound, "moment not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete moment")
	}

	return jsonSuccess(c, fiber.Map{"deleted": true})
}

// ownedTrip loads the trip from the :id param and enforces ownership.
// On failure it writes the error response and returns nil; callers must
// stop when they get nil back.
func (h *TripHandler) ownedTrip(c fiber.Ctx, user *models.User) *models.Trip {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		jsonError(c, fiber.StatusBadRequest, "invalid trip id")
		return nil
	}

	trip, err := h.db.GetTripByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrTripNotFound) {
			jsonError(c, fiber.StatusNotFound, "trip not found")
		} else {
			jsonError(c, fiber.StatusInternalServerError, "failed to fetch trip")
		}
		return nil
	}

	if trip.OwnerID != user.ID {
		jsonError(c, fiber.StatusForbidden, "not authorized")
		return nil
	}

	return trip
}
