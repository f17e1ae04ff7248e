package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shatayaglobal/Manpower/internal/database"
	"github.com/shatayaglobal/Manpower/internal/geo"
	"github.com/shatayaglobal/Manpower/internal/models"
)

const businessColumns = `id, owner_id, name, workplace_latitude, workplace_longitude,
	clock_in_radius_meters, require_location_for_clock_in, created_at, updated_at`

type BusinessService struct {
	db *database.DB
}

func NewBusinessService(db *database.DB) *BusinessService {
	return &BusinessService{db: db}
}

// LocationSettings is a partial update of a business's clock-in geofence.
type LocationSettings struct {
	WorkplaceLatitude         *float64
	WorkplaceLongitude        *float64
	ClockInRadiusMeters       *int
	RequireLocationForClockIn *bool
}

func scanBusiness(row pgx.Row) (*models.Business, error) {
	var b models.Business
	err := row.Scan(
		&b.ID, &b.OwnerID, &b.Name, &b.WorkplaceLatitude, &b.WorkplaceLongitude,
		&b.ClockInRadiusMeters, &b.RequireLocationForClockIn, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *BusinessService) GetByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	return scanBusiness(s.db.Pool.QueryRow(ctx, `
		SELECT `+businessColumns+`
		FROM businesses WHERE id = $1
	`, id))
}

func (s *BusinessService) GetOwned(ctx context.Context, ownerID uuid.UUID) ([]models.Business, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+businessColumns+`
		FROM businesses WHERE owner_id = $1
		ORDER BY name
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var businesses []models.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, *b)
	}
	return businesses, rows.Err()
}

func (s *BusinessService) IsOwner(ctx context.Context, businessID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM businesses WHERE id = $1 AND owner_id = $2)
	`, businessID, userID).Scan(&exists)
	return exists, err
}

// UpdateLocation changes the workplace geofence. Only the owner may call it.
func (s *BusinessService) UpdateLocation(ctx context.Context, actorID, businessID uuid.UUID, settings LocationSettings) (*models.Business, error) {
	if err := validateLocationSettings(settings); err != nil {
		return nil, err
	}

	business, err := s.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if business.OwnerID != actorID {
		return nil, ErrForbidden
	}

	lat, lon := business.WorkplaceLatitude, business.WorkplaceLongitude
	if settings.WorkplaceLatitude != nil {
		lat = settings.WorkplaceLatitude
	}
	if settings.WorkplaceLongitude != nil {
		lon = settings.WorkplaceLongitude
	}
	if (lat == nil) != (lon == nil) {
		return nil, invalid("workplace_latitude", "latitude and longitude must be set together")
	}
	if lat != nil && !geo.ValidCoordinate(*lat, *lon) {
		return nil, invalid("workplace_latitude", "coordinate out of range")
	}

	radius := business.ClockInRadiusMeters
	if settings.ClockInRadiusMeters != nil {
		radius = *settings.ClockInRadiusMeters
	}
	require := business.RequireLocationForClockIn
	if settings.RequireLocationForClockIn != nil {
		require = *settings.RequireLocationForClockIn
	}

	updated, err := scanBusiness(s.db.Pool.QueryRow(ctx, `
		UPDATE businesses
		SET workplace_latitude = $1, workplace_longitude = $2,
			clock_in_radius_meters = $3, require_location_for_clock_in = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+businessColumns,
		lat, lon, radius, require, businessID))
	if err != nil {
		return nil, fmt.Errorf("failed to update business location: %w", err)
	}
	return updated, nil
}

func validateLocationSettings(s LocationSettings) error {
	if s.ClockInRadiusMeters != nil && *s.ClockInRadiusMeters <= 0 {
		return invalid("clock_in_radius_meters", "must be positive")
	}
	return nil
}
