package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditEvent is a record of a share link lifecycle action, keyed by the
// owner who performed it. Raw tokens are never part of an event.
type AuditEvent struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Action    string    `json:"action"` // share_link.create, share_link.rotate, share_link.revoke
	Scope     string    `json:"scope"`
	LinkID    uuid.UUID `json:"link_id"`
	CreatedAt time.Time `json:"created_at"`
}
