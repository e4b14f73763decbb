package api

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"tripatlas/internal/config"
	"tripatlas/internal/models"
	"tripatlas/internal/sharelink"
	"tripatlas/internal/validation"
)

// ShareLinkHandler handles owner-facing share link lifecycle operations.
// These routes are authenticated; error responses here are precise, unlike
// the public resolution path.
type ShareLinkHandler struct {
	manager *sharelink.Manager
	cfg     *config.Config
}

// NewShareLinkHandler creates a new share link API handler.
func NewShareLinkHandler(manager *sharelink.Manager, cfg *config.Config) *ShareLinkHandler {
	return &ShareLinkHandler{manager: manager, cfg: cfg}
}

// List returns the authenticated user's share links.
func (h *ShareLinkHandler) List(c fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	links, err := h.manager.List(c.Context(), user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch share links")
	}

	return jsonSuccess(c, links)
}

// Create mints a new share link and returns the one-time raw token.
func (h *ShareLinkHandler) Create(c fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var body struct {
		Scope  string `json:"scope"`
		TripID string `json:"trip_id"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if !validation.ValidateScope(body.Scope) {
		return jsonError(c, fiber.StatusBadRequest, "scope must be 'trip' or 'profile'")
	}

	var tripID *uuid.UUID
	if body.Scope == models.ShareScopeTrip {
		id, err := uuid.Parse(body.TripID)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "trip_id is required for trip scope")
		}
		tripID = &id
	}

	link, token, err := h.manager.Create(c.Context(), user, body.Scope, tripID)
	if err != nil {
		return shareLinkError(c, err)
	}

	return jsonSuccess(c, models.ShareLinkCreateResponse{
		Link:     link,
		Token:    token,
		ShareURL: h.shareURL(link.Scope, token),
	})
}

// Rotate replaces a link's token and returns the new one-time raw token.
// The previous token stops resolving immediately.
func (h *ShareLinkHandler) Rotate(c fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid share link id")
	}

	token, err := h.manager.Rotate(c.Context(), id, user)
	if err != nil {
		return shareLinkError(c, err)
	}

	link, err := h.manager.Get(c.Context(), id, user)
	if err != nil {
		return shareLinkError(c, err)
	}

	return jsonSuccess(c, models.ShareLinkCreateResponse{
		Link:     link,
		Token:    token,
		ShareURL: h.shareURL(link.Scope, token),
	})
}

// Revoke permanently disables a link. Safe to call twice.
func (h *ShareLinkHandler) Revoke(c fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid share link id")
	}

	if err := h.manager.Revoke(c.Context(), id, user); err != nil {
		return shareLinkError(c, err)
	}

	return jsonSuccess(c, models.ShareLinkRevokeResponse{Revoked: true})
}

func (h *ShareLinkHandler) shareURL(scope, token string) string {
	return fmt.Sprintf("%s/s/%s/%s", h.cfg.BaseURL, scope, token)
}

// shareLinkError maps lifecycle sentinels onto HTTP statuses for the
// authenticated owner. Unknown failures get a generic 500 message.
func shareLinkError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, sharelink.ErrShareLinkNotFound):
		return jsonError(c, fiber.StatusNotFound, "share link not found")
	case errors.Is(err, sharelink.ErrNotShareLinkOwner):
		return jsonError(c, fiber.StatusForbidden, "not authorized to manage this share link")
	case errors.Is(err, sharelink.ErrShareLinkRevoked):
		return jsonError(c, fiber.StatusConflict, "share link is revoked; create a new one")
	case errors.Is(err, sharelink.ErrShareLinkConflict):
		return jsonError(c, fiber.StatusConflict, "an active share link already exists for this resource")
	default:
		return jsonError(c, fiber.StatusInternalServerError, "share link operation failed")
	}
}
