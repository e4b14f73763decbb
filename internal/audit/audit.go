// Package audit records share link lifecycle events on a best-effort basis.
package audit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"tripatlas/internal/models"
)

// EventWriter is the storage dependency for audit events.
type EventWriter interface {
	InsertAuditEvent(ctx context.Context, ownerID uuid.UUID, action, scope string, linkID uuid.UUID) error
}

// Recorder writes audit events asynchronously. Failures are logged and never
// fail the request that triggered them. Raw tokens never pass through here.
type Recorder struct {
	store EventWriter
}

// NewRecorder creates an audit recorder.
func NewRecorder(store EventWriter) *Recorder {
	return &Recorder{store: store}
}

// RecordLinkEvent records a lifecycle event for a share link, fire-and-forget.
func (r *Recorder) RecordLinkEvent(_ context.Context, action string, link *models.ShareLink) {
	go func() {
		if err := r.store.InsertAuditEvent(context.Background(), link.OwnerID, action, link.Scope, link.ID); err != nil {
			slog.Error("failed to record audit event", "action", action, "link_id", link.ID, "error", err)
		}
	}()
}
