package dto

import "github.com/google/uuid"

type UpdateLocationRequest struct {
	WorkplaceLatitude         *float64 `json:"workplace_latitude"`
	WorkplaceLongitude        *float64 `json:"workplace_longitude"`
	ClockInRadiusMeters       *int     `json:"clock_in_radius_meters"`
	RequireLocationForClockIn *bool    `json:"require_location_for_clock_in"`
}

type BusinessResponse struct {
	ID                        uuid.UUID `json:"id"`
	OwnerID                   uuid.UUID `json:"owner_id"`
	Name                      string    `json:"name"`
	WorkplaceLatitude         *float64  `json:"workplace_latitude"`
	WorkplaceLongitude        *float64  `json:"workplace_longitude"`
	ClockInRadiusMeters       int       `json:"clock_in_radius_meters"`
	RequireLocationForClockIn bool      `json:"require_location_for_clock_in"`
}
