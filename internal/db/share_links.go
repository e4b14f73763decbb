package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"tripatlas/internal/models"
	"tripatlas/internal/sharelink"
)

const shareLinkColumns = `id, owner_id, scope, trip_id, token_hash, status, created_at, rotated_at`

func scanShareLink(row pgx.Row, link *models.ShareLink) error {
	return row.Scan(
		&link.ID, &link.OwnerID, &link.Scope, &link.TripID,
		&link.TokenHash, &link.Status, &link.CreatedAt, &link.RotatedAt,
	)
}

// CreateShareLink inserts a new active share link. Partial unique indexes
// enforce at most one active link per trip and one active profile link per
// owner; violations surface as the conflict sentinel.
func (d *DB) CreateShareLink(ctx context.Context, link *models.ShareLink) error {
	query := `
		INSERT INTO share_links (owner_id, scope, trip_id, token_hash, status)
		VALUES ($1, $2, $3, $4, 'active')
		RETURNING id, status, created_at
	`
	err := d.Pool.QueryRow(ctx, query,
		link.OwnerID, link.Scope, link.TripID, link.TokenHash,
	).Scan(&link.ID, &link.Status, &link.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sharelink.ErrShareLinkConflict
		}
		return err
	}
	return nil
}

// GetShareLinkByID returns a single share link by ID.
func (d *DB) GetShareLinkByID(ctx context.Context, id uuid.UUID) (*models.ShareLink, error) {
	var link models.ShareLink
	err := scanShareLink(
		d.Pool.QueryRow(ctx, `SELECT `+shareLinkColumns+` FROM share_links WHERE id = $1`, id),
		&link,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sharelink.ErrShareLinkNotFound
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// ListShareLinksByOwner returns all of a user's share links, newest first.
func (d *DB) ListShareLinksByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.ShareLink, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+shareLinkColumns+` FROM share_links
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.ShareLink
	for rows.Next() {
		var link models.ShareLink
		if err := scanShareLink(rows, &link); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// RotateShareLinkToken atomically swaps the token hash of an active link.
// The status guard in the WHERE clause makes rotation a single conditional
// write: a concurrent revoke either lands before (no rows updated) or after
// (link revoked with the new hash), never a state where two tokens verify.
func (d *DB) RotateShareLinkToken(ctx context.Context, id uuid.UUID, tokenHash string) (bool, error) {
	result, err := d.Pool.Exec(ctx, `
		UPDATE share_links
		SET token_hash = $2, rotated_at = NOW()
		WHERE id = $1 AND status = 'active'
	`, id, tokenHash)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// RevokeShareLink marks a link revoked. No status guard: revoking an
// already-revoked link is a harmless no-op write, which keeps the operation
// idempotent.
func (d *DB) RevokeShareLink(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx,
		`UPDATE share_links SET status = 'revoked' WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return sharelink.ErrShareLinkNotFound
	}
	return nil
}

// GetActiveShareLinkByTokenHash looks up an active link by exact fingerprint
// match. The status filter is part of the query so revoked links are never
// even compared against.
func (d *DB) GetActiveShareLinkByTokenHash(ctx context.Context, scope, tokenHash string) (*models.ShareLink, error) {
	var link models.ShareLink
	err := scanShareLink(
		d.Pool.QueryRow(ctx, `
			SELECT `+shareLinkColumns+` FROM share_links
			WHERE scope = $1 AND token_hash = $2 AND status = 'active'
		`, scope, tokenHash),
		&link,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sharelink.ErrShareLinkNotFound
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// RevokeShareLinksIdleSince revokes active links whose last rotation (or
// creation, if never rotated) predates the cutoff. Used by the expiry sweep.
func (d *DB) RevokeShareLinksIdleSince(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := d.Pool.Exec(ctx, `
		UPDATE share_links
		SET status = 'revoked'
		WHERE status = 'active' AND COALESCE(rotated_at, created_at) < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
