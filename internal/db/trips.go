package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"tripatlas/internal/models"
)

const tripColumns = `id, owner_id, title, description, location_name, latitude, longitude,
	started_on, ended_on, cover_url, visibility, created_at, updated_at`

func scanTrip(row pgx.Row, trip *models.Trip) error {
	return row.Scan(
		&trip.ID, &trip.OwnerID, &trip.Title, &trip.Description, &trip.LocationName,
		&trip.Latitude, &trip.Longitude, &trip.StartedOn, &trip.EndedOn,
		&trip.CoverURL, &trip.Visibility, &trip.CreatedAt, &trip.UpdatedAt,
	)
}

// CreateTrip inserts a new trip for its owner.
func (d *DB) CreateTrip(ctx context.Context, trip *models.Trip) error {
	query := `
		INSERT INTO trips (owner_id, title, description, location_name, latitude, longitude,
			started_on, ended_on, cover_url, visibility)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE(NULLIF($10, ''), 'private'))
		RETURNING id, visibility, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query,
		trip.OwnerID, trip.Title, trip.Description, trip.LocationName,
		trip.Latitude, trip.Longitude, trip.StartedOn, trip.EndedOn,
		trip.CoverURL, trip.Visibility,
	).Scan(&trip.ID, &trip.Visibility, &trip.CreatedAt, &trip.UpdatedAt)
}

// GetTripByID returns a single trip.
func (d *DB) GetTripByID(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	err := scanTrip(d.Pool.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = $1`, id), &trip)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTripNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// ListTripsByOwner returns all trips of a user, newest first.
func (d *DB) ListTripsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Trip, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+tripColumns+` FROM trips
		WHERE owner_id = $1
		ORDER BY COALESCE(started_on, created_at::date) DESC, created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []models.Trip
	for rows.Next() {
		var trip models.Trip
		if err := scanTrip(rows, &trip); err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}

// UpdateTrip updates a trip's editable fields.
func (d *DB) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	query := `
		UPDATE trips SET
			title = $2, description = $3, location_name = $4, latitude = $5, longitude = $6,
			started_on = $7, ended_on = $8, cover_url = $9, visibility = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		trip.ID, trip.Title, trip.Description, trip.LocationName,
		trip.Latitude, trip.Longitude, trip.StartedOn, trip.EndedOn,
		trip.CoverURL, trip.Visibility,
	).Scan(&trip.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrTripNotFound
	}
	return err
}

// DeleteTrip removes a trip. Moments and trip-scope share links cascade.
func (d *DB) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTripNotFound
	}
	return nil
}

// TripOwnedBy reports whether the trip exists and belongs to the user.
func (d *DB) TripOwnedBy(ctx context.Context, tripID, ownerID uuid.UUID) (bool, error) {
	var owned bool
	err := d.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM trips WHERE id = $1 AND owner_id = $2)`,
		tripID, ownerID,
	).Scan(&owned)
	return owned, err
}

// CreateMoment adds a moment to a trip.
func (d *DB) CreateMoment(ctx context.Context, moment *models.Moment) error {
	query := `
		INSERT INTO trip_moments (trip_id, caption, media_url, latitude, longitude, taken_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return d.Pool.QueryRow(ctx, query,
		moment.TripID, moment.Caption, moment.MediaURL,
		moment.Latitude, moment.Longitude, moment.TakenAt,
	).Scan(&moment.ID, &moment.CreatedAt)
}

// GetTripMoments returns a trip's moments in chronological order.
func (d *DB) GetTripMoments(ctx context.Context, tripID uuid.UUID) ([]models.Moment, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, trip_id, caption, media_url, latitude, longitude, taken_at, created_at
		FROM trip_moments
		WHERE trip_id = $1
		ORDER BY COALESCE(taken_at, created_at) ASC
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var moments []models.Moment
	for rows.Next() {
		var m models.Moment
		if err := rows.Scan(
			&m.ID, &m.TripID, &m.Caption, &m.MediaURL,
			&m.Latitude, &m.Longitude, &m.TakenAt, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		moments = append(moments, m)
	}
	return moments, rows.Err()
}

// DeleteMoment removes a moment from a trip.
func (d *DB) DeleteMoment(ctx context.Context, id, tripID uuid.UUID) error {
	result, err := d.Pool.Exec(ctx,
		`DELETE FROM trip_moments WHERE id = $1 AND trip_id = $2`, id, tripID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrMomentNotFound
	}
	return nil
}
