package models

import (
	"time"

	"github.com/google/uuid"
)

// Share link scopes
const (
	ShareScopeTrip    = "trip"
	ShareScopeProfile = "profile"
)

// Share link statuses
const (
	ShareStatusActive  = "active"
	ShareStatusRevoked = "revoked"
)

// ShareLink is a capability record granting read-only external access to a
// trip or a profile via a bearer token. The raw token is never persisted;
// only its fingerprint is stored.
type ShareLink struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	Scope     string     `json:"scope"`                 // trip, profile
	TripID    *uuid.UUID `json:"trip_id,omitempty"`     // set when scope = trip
	TokenHash string     `json:"-"`                     // never exposed
	Status    string     `json:"status"`                // active, revoked
	CreatedAt time.Time  `json:"created_at"`
	RotatedAt *time.Time `json:"rotated_at,omitempty"`  // nil until first rotation
}

// IsActive returns true if the link can still resolve.
func (s *ShareLink) IsActive() bool {
	return s.Status == ShareStatusActive
}

// ResolvedShare identifies the resource a presented token unlocked.
type ResolvedShare struct {
	Scope   string     `json:"scope"`
	TripID  *uuid.UUID `json:"trip_id,omitempty"`
	OwnerID uuid.UUID  `json:"owner_id"`
}
