package handlers

import (
	"github.com/gofiber/fiber/v3"

	"tripatlas/internal/config"
	"tripatlas/internal/db"
	"tripatlas/internal/metrics"
	"tripatlas/internal/models"
	"tripatlas/internal/sharelink"
	"tripatlas/internal/validation"
)

// ResolveHandler serves share links to anonymous visitors. It is the only
// entry point an unauthenticated caller touches, and every failure renders
// the same "unavailable" page: wrong token, revoked link, malformed input,
// and store errors are indistinguishable from outside.
type ResolveHandler struct {
	manager *sharelink.Manager
	db      *db.DB
	cfg     *config.Config
}

// NewResolveHandler creates a new public resolution handler.
func NewResolveHandler(manager *sharelink.Manager, database *db.DB, cfg *config.Config) *ResolveHandler {
	return &ResolveHandler{manager: manager, db: database, cfg: cfg}
}

// Resolve handles GET /s/:scope/:token.
func (h *ResolveHandler) Resolve(c fiber.Ctx) error {
	scope := c.Params("scope")
	token := c.Params("token")

	resolved, err := h.manager.Resolve(c.Context(), scope, token)
	if err != nil {
		// Metrics bin malformed scopes together; the token is never recorded.
		outcome := "miss"
		statScope := scope
		if !validation.ValidateScope(scope) {
			statScope = "invalid"
		}
		metrics.RecordResolution(statScope, outcome)
		return h.unavailable(c)
	}

	metrics.RecordResolution(resolved.Scope, "hit")

	switch resolved.Scope {
	case models.ShareScopeTrip:
		return h.renderTrip(c, resolved)
	case models.ShareScopeProfile:
		return h.renderProfile(c, resolved)
	default:
		return h.unavailable(c)
	}
}

func (h *ResolveHandler) renderTrip(c fiber.Ctx, resolved *models.ResolvedShare) error {
	trip, err := h.db.GetTripByID(c.Context(), *resolved.TripID)
	if err != nil {
		return h.unavailable(c)
	}

	moments, err := h.db.GetTripMoments(c.Context(), trip.ID)
	if err != nil {
		return h.unavailable(c)
	}

	owner, err := h.db.GetUserByID(c.Context(), trip.OwnerID)
	if err != nil {
		return h.unavailable(c)
	}

	return c.Render("share_trip", MergeBranding(fiber.Map{
		"Title":     trip.Title,
		"Trip":      trip,
		"Moments":   moments,
		"OwnerName": owner.DisplayName(),
	}, h.cfg))
}

func (h *ResolveHandler) renderProfile(c fiber.Ctx, resolved *models.ResolvedShare) error {
	owner, err := h.db.GetUserByID(c.Context(), resolved.OwnerID)
	if err != nil {
		return h.unavailable(c)
	}

	trips, err := h.db.ListTripsByOwner(c.Context(), owner.ID)
	if err != nil {
		return h.unavailable(c)
	}

	return c.Render("share_profile", MergeBranding(fiber.Map{
		"Title":     owner.DisplayName(),
		"OwnerName": owner.DisplayName(),
		"Bio":       owner.Bio,
		"Home":      owner.HomeLocation,
		"Trips":     trips,
	}, h.cfg))
}

// unavailable renders the single generic failure page. 404 with one body for
// every cause, so the public path cannot be used as an oracle.
func (h *ResolveHandler) unavailable(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).Render("unavailable", MergeBranding(fiber.Map{
		"Title": "Share Link Unavailable",
	}, h.cfg))
}
