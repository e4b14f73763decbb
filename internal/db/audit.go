package db

import (
	"context"

	"github.com/google/uuid"

	"tripatlas/internal/models"
)

// InsertAuditEvent records a lifecycle event. Raw tokens never reach this
// table; events carry only identifiers.
func (d *DB) InsertAuditEvent(ctx context.Context, ownerID uuid.UUID, action, scope string, linkID uuid.UUID) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO audit_events (owner_id, action, scope, link_id)
		VALUES ($1, $2, $3, $4)
	`, ownerID, action, scope, linkID)
	return err
}

// GetAuditEventsByOwner returns an owner's recent lifecycle events.
func (d *DB) GetAuditEventsByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.AuditEvent, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, owner_id, action, scope, link_id, created_at
		FROM audit_events
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.AuditEvent
	for rows.Next() {
		var e models.AuditEvent
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Action, &e.Scope, &e.LinkID, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
