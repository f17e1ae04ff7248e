package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/shatayaglobal/Manpower/internal/database"
	"github.com/shatayaglobal/Manpower/internal/models"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates an active test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email:      fmt.Sprintf("user%d@example.com", f.counter),
		Name:       fmt.Sprintf("Test User %d", f.counter),
		IsActive:   true,
		GlobalRole: models.GlobalRoleUser,
	}

	for _, opt := range opts {
		opt(user)
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO users (email, name, is_active, global_role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, user.Email, user.Name, user.IsActive, user.GlobalRole).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithName sets the user's name
func WithName(name string) UserOption {
	return func(u *models.User) {
		u.Name = name
	}
}

// Inactive creates the user deactivated
func Inactive() UserOption {
	return func(u *models.User) {
		u.IsActive = false
	}
}

// AsAdmin gives the user the platform admin role
func AsAdmin() UserOption {
	return func(u *models.User) {
		u.GlobalRole = models.GlobalRoleAdmin
	}
}

// CreateBusiness creates a business owned by owner. Without options it has
// no workplace configured.
func (f *Fixtures) CreateBusiness(t *testing.T, owner *models.User, opts ...BusinessOption) *models.Business {
	t.Helper()
	f.counter++

	business := &models.Business{
		OwnerID:             owner.ID,
		Name:                fmt.Sprintf("Test Business %d", f.counter),
		ClockInRadiusMeters: models.DefaultClockInRadiusMeters,
	}

	for _, opt := range opts {
		opt(business)
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO businesses (owner_id, name, workplace_latitude, workplace_longitude, clock_in_radius_meters, require_location_for_clock_in)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, business.OwnerID, business.Name, business.WorkplaceLatitude, business.WorkplaceLongitude,
		business.ClockInRadiusMeters, business.RequireLocationForClockIn,
	).Scan(&business.ID, &business.CreatedAt, &business.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create business: %v", err)
	}

	return business
}

// BusinessOption configures a test business
type BusinessOption func(*models.Business)

// WithWorkplace sets the workplace coordinate and geofence radius and makes
// location mandatory for clock-in.
func WithWorkplace(lat, lon float64, radiusMeters int) BusinessOption {
	return func(b *models.Business) {
		b.WorkplaceLatitude = &lat
		b.WorkplaceLongitude = &lon
		b.ClockInRadiusMeters = radiusMeters
		b.RequireLocationForClockIn = true
	}
}

// CreateStaff links worker to business as a confirmed, active staff member.
func (f *Fixtures) CreateStaff(t *testing.T, business *models.Business, worker *models.User) *models.StaffMember {
	t.Helper()

	staff := &models.StaffMember{
		BusinessID: business.ID,
		Name:       worker.Name,
		JobTitle:   "Waiter",
		Status:     models.StaffStatusActive,
		Confirmed:  true,
	}
	workerID := worker.ID
	staff.UserID = &workerID

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO business_staff (business_id, user_id, name, job_title, status, confirmed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, staff.BusinessID, staff.UserID, staff.Name, staff.JobTitle, staff.Status, staff.Confirmed,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create staff: %v", err)
	}

	return staff
}

// CreateMessage stores a chat message from sender to receiver.
func (f *Fixtures) CreateMessage(t *testing.T, senderID, receiverID uuid.UUID, body string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO messages (sender_id, receiver_id, body, message_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, senderID, receiverID, body, models.MessageTypeChat).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create message: %v", err)
	}

	return id
}
