package api

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"tripatlas/internal/metrics"
	"tripatlas/internal/models"
	"tripatlas/internal/sharelink"
	"tripatlas/internal/validation"
)

// ResourceReader is the read-only data dependency of the public resolve
// endpoint.
type ResourceReader interface {
	GetTripByID(ctx context.Context, id uuid.UUID) (*models.Trip, error)
	GetTripMoments(ctx context.Context, tripID uuid.UUID) ([]models.Moment, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListTripsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Trip, error)
}

// ResolveHandler serves share link resolution as JSON for API clients. Like
// the HTML endpoint, every failure collapses into one 404 response body.
type ResolveHandler struct {
	manager *sharelink.Manager
	reader  ResourceReader
}

// NewResolveHandler creates a new API resolve handler.
func NewResolveHandler(manager *sharelink.Manager, reader ResourceReader) *ResolveHandler {
	return &ResolveHandler{manager: manager, reader: reader}
}

// sharedProfile is the read-only projection of a profile exposed through a
// share link. No subject identifier, email, or role leaves this endpoint.
type sharedProfile struct {
	Name         string        `json:"name"`
	Bio          string        `json:"bio"`
	HomeLocation string        `json:"home_location"`
	Trips        []models.Trip `json:"trips"`
}

// Resolve handles GET /api/s/:scope/:token.
func (h *ResolveHandler) Resolve(c fiber.Ctx) error {
	scope := c.Params("scope")
	token := c.Params("token")

	resolved, err := h.manager.Resolve(c.Context(), scope, token)
	if err != nil {
		statScope := scope
		if !validation.ValidateScope(scope) {
			statScope = "invalid"
		}
		metrics.RecordResolution(statScope, "miss")
		return h.unavailable(c)
	}

	metrics.RecordResolution(resolved.Scope, "hit")

	switch resolved.Scope {
	case models.ShareScopeTrip:
		trip, err := h.reader.GetTripByID(c.Context(), *resolved.TripID)
		if err != nil {
			return h.unavailable(c)
		}
		moments, err := h.reader.GetTripMoments(c.Context(), trip.ID)
		if err != nil {
			return h.unavailable(c)
		}
		return jsonSuccess(c, models.TripWithMoments{Trip: trip, Moments: moments})

	case models.ShareScopeProfile:
		owner, err := h.reader.GetUserByID(c.Context(), resolved.OwnerID)
		if err != nil {
			return h.unavailable(c)
		}
		trips, err := h.reader.ListTripsByOwner(c.Context(), owner.ID)
		if err != nil {
			return h.unavailable(c)
		}
		return jsonSuccess(c, sharedProfile{
			Name:         owner.DisplayName(),
			Bio:          owner.Bio,
			HomeLocation: owner.HomeLocation,
			Trips:        trips,
		})

	default:
		return h.unavailable(c)
	}
}

// unavailable is the single failure response on the public path.
func (h *ResolveHandler) unavailable(c fiber.Ctx) error {
	return jsonError(c, fiber.StatusNotFound, "share link unavailable")
}
