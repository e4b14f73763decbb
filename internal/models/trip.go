package models

import (
	"time"

	"github.com/google/uuid"
)

// Trip visibility values
const (
	VisibilityPrivate = "private"
	VisibilityPublic  = "public"
)

// Trip represents a recorded journey with a primary location.
type Trip struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	LocationName string     `json:"location_name"`
	Latitude     *float64   `json:"latitude"`
	Longitude    *float64   `json:"longitude"`
	StartedOn    *time.Time `json:"started_on"`
	EndedOn      *time.Time `json:"ended_on"`
	CoverURL     string     `json:"cover_url"`
	Visibility   string     `json:"visibility"` // private, public
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Moment is a single dated entry within a trip (a photo, note, or checkpoint).
type Moment struct {
	ID        uuid.UUID  `json:"id"`
	TripID    uuid.UUID  `json:"trip_id"`
	Caption   string     `json:"caption"`
	MediaURL  string     `json:"media_url"`
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	TakenAt   *time.Time `json:"taken_at"`
	CreatedAt time.Time  `json:"created_at"`
}
