package db

import (
	"context"

	"tripatlas/internal/models"
)

// IncrementResolutionStat upserts the counter for a scope/outcome pair.
func (d *DB) IncrementResolutionStat(ctx context.Context, scope, outcome string) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO share_resolution_stats (scope, outcome, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (scope, outcome) DO UPDATE SET count = share_resolution_stats.count + 1
	`, scope, outcome)
	return err
}

// GetAllResolutionStats returns every resolution counter for metric export.
func (d *DB) GetAllResolutionStats(ctx context.Context) ([]models.ResolutionStat, error) {
	rows, err := d.Pool.Query(ctx,
		`SELECT scope, outcome, count FROM share_resolution_stats`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.ResolutionStat
	for rows.Next() {
		var s models.ResolutionStat
		if err := rows.Scan(&s.Scope, &s.Outcome, &s.Count); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
