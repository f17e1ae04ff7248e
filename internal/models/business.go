package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultClockInRadiusMeters = 100

type Business struct {
	ID                        uuid.UUID `json:"id"`
	OwnerID                   uuid.UUID `json:"owner_id"`
	Name                      string    `json:"name"`
	WorkplaceLatitude         *float64  `json:"workplace_latitude"`
	WorkplaceLongitude        *float64  `json:"workplace_longitude"`
	ClockInRadiusMeters       int       `json:"clock_in_radius_meters"`
	RequireLocationForClockIn bool      `json:"require_location_for_clock_in"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

// HasWorkplace reports whether both workplace coordinates are set.
func (b *Business) HasWorkplace() bool {
	return b.WorkplaceLatitude != nil && b.WorkplaceLongitude != nil
}
