package sharelink

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"tripatlas/internal/models"
	"tripatlas/internal/validation"
)

// Store is the persistence collaborator for share links. Implementations
// must return the sentinels in errors.go for the conditions they name and
// perform rotation and revocation as single atomic updates.
type Store interface {
	// CreateShareLink persists a new active link, filling ID and CreatedAt.
	// Returns ErrShareLinkConflict when an active link already exists for
	// the same scope and resource.
	CreateShareLink(ctx context.Context, link *models.ShareLink) error

	// GetShareLinkByID returns ErrShareLinkNotFound when no such link exists.
	GetShareLinkByID(ctx context.Context, id uuid.UUID) (*models.ShareLink, error)

	// ListShareLinksByOwner returns all links (any status) owned by a user.
	ListShareLinksByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.ShareLink, error)

	// RotateShareLinkToken atomically replaces the token hash of an active
	// link and stamps rotated_at. Returns false without error when the link
	// was not active at write time (lost a race with revoke).
	RotateShareLinkToken(ctx context.Context, id uuid.UUID, tokenHash string) (bool, error)

	// RevokeShareLink marks a link revoked. Idempotent: revoking a revoked
	// link succeeds. Returns ErrShareLinkNotFound for unknown ids.
	RevokeShareLink(ctx context.Context, id uuid.UUID) error

	// GetActiveShareLinkByTokenHash does an indexed equality lookup over
	// active links only; revoked links are never considered. Returns
	// ErrShareLinkNotFound on no match.
	GetActiveShareLinkByTokenHash(ctx context.Context, scope, tokenHash string) (*models.ShareLink, error)

	// TripOwnedBy reports whether the trip exists and belongs to the user.
	TripOwnedBy(ctx context.Context, tripID, ownerID uuid.UUID) (bool, error)
}

// Auditor records lifecycle events. It never receives raw tokens.
type Auditor interface {
	RecordLinkEvent(ctx context.Context, action string, link *models.ShareLink)
}

// Manager owns the create/rotate/revoke state transitions for share links.
// It is the only writer of share link records and the only component that
// handles raw token material.
type Manager struct {
	store   Store
	auditor Auditor // optional
}

// NewManager creates a lifecycle manager. The auditor may be nil.
func NewManager(store Store, auditor Auditor) *Manager {
	return &Manager{store: store, auditor: auditor}
}

// Create mints a new share link for the owner. For trip scope the owner must
// control the trip; profile scope always targets the owner's own profile.
// The returned raw token is shown once and cannot be retrieved again.
func (m *Manager) Create(ctx context.Context, owner *models.User, scope string, tripID *uuid.UUID) (*models.ShareLink, string, error) {
	link := &models.ShareLink{
		OwnerID: owner.ID,
		Scope:   scope,
		Status:  models.ShareStatusActive,
	}

	switch scope {
	case models.ShareScopeTrip:
		if tripID == nil {
			return nil, "", fmt.Errorf("trip scope requires a trip id")
		}
		owned, err := m.store.TripOwnedBy(ctx, *tripID, owner.ID)
		if err != nil {
			return nil, "", err
		}
		if !owned {
			return nil, "", ErrNotShareLinkOwner
		}
		link.TripID = tripID
	case models.ShareScopeProfile:
		// Implicitly scoped to the owner's own profile.
	default:
		return nil, "", fmt.Errorf("invalid share scope %q", scope)
	}

	token, err := GenerateToken()
	if err != nil {
		return nil, "", err
	}
	link.TokenHash = HashToken(token)

	if err := m.store.CreateShareLink(ctx, link); err != nil {
		return nil, "", err
	}

	m.audit(ctx, "share_link.create", link)
	return link, token, nil
}

// Rotate replaces the live token of an active link and returns the new raw
// token once. The previous token is invalidated atomically: a concurrent
// resolution sees either the old hash or the new one, never both.
func (m *Manager) Rotate(ctx context.Context, linkID uuid.UUID, requester *models.User) (string, error) {
	link, err := m.store.GetShareLinkByID(ctx, linkID)
	if err != nil {
		return "", err
	}
	if link.OwnerID != requester.ID && !requester.IsAdmin() {
		return "", ErrNotShareLinkOwner
	}
	if !link.IsActive() {
		return "", ErrShareLinkRevoked
	}

	token, err := GenerateToken()
	if err != nil {
		return "", err
	}

	rotated, err := m.store.RotateShareLinkToken(ctx, linkID, HashToken(token))
	if err != nil {
		return "", err
	}
	if !rotated {
		// Revoked between the read and the conditional write.
		return "", ErrShareLinkRevoked
	}

	m.audit(ctx, "share_link.rotate", link)
	return token, nil
}

// Revoke permanently disables a link. Idempotent: revoking an already
// revoked link succeeds silently. There is no transition out of revoked.
func (m *Manager) Revoke(ctx context.Context, linkID uuid.UUID, requester *models.User) error {
	link, err := m.store.GetShareLinkByID(ctx, linkID)
	if err != nil {
		return err
	}
	if link.OwnerID != requester.ID && !requester.IsAdmin() {
		return ErrNotShareLinkOwner
	}
	if !link.IsActive() {
		return nil
	}

	if err := m.store.RevokeShareLink(ctx, linkID); err != nil {
		return err
	}

	m.audit(ctx, "share_link.revoke", link)
	return nil
}

// Get returns a link to its owner (or an admin) for management views.
func (m *Manager) Get(ctx context.Context, linkID uuid.UUID, requester *models.User) (*models.ShareLink, error) {
	link, err := m.store.GetShareLinkByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if link.OwnerID != requester.ID && !requester.IsAdmin() {
		return nil, ErrNotShareLinkOwner
	}
	return link, nil
}

// List returns all of an owner's links for management views.
func (m *Manager) List(ctx context.Context, ownerID uuid.UUID) ([]models.ShareLink, error) {
	return m.store.ListShareLinksByOwner(ctx, ownerID)
}

// Resolve is the only read path usable by unauthenticated callers. The
// presented token is hashed once and matched by indexed equality against
// active links of the given scope. Every failure mode collapses into
// ErrShareLinkUnavailable so callers cannot distinguish wrong, revoked,
// malformed, or nonexistent tokens.
func (m *Manager) Resolve(ctx context.Context, scope, presentedToken string) (*models.ResolvedShare, error) {
	if !validation.ValidateScope(scope) || !validation.ValidateToken(presentedToken) {
		return nil, ErrShareLinkUnavailable
	}

	link, err := m.store.GetActiveShareLinkByTokenHash(ctx, scope, HashToken(presentedToken))
	if err != nil {
		return nil, ErrShareLinkUnavailable
	}

	// The equality lookup already matched the fingerprint; re-verify in
	// constant time so a store that matched on anything else cannot leak.
	if !VerifyToken(presentedToken, link.TokenHash) {
		return nil, ErrShareLinkUnavailable
	}

	return &models.ResolvedShare{
		Scope:   link.Scope,
		TripID:  link.TripID,
		OwnerID: link.OwnerID,
	}, nil
}

func (m *Manager) audit(ctx context.Context, action string, link *models.ShareLink) {
	if m.auditor != nil {
		m.auditor.RecordLinkEvent(ctx, action, link)
	}
}
