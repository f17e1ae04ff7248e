package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shatayaglobal/Manpower/internal/database"
	"github.com/shatayaglobal/Manpower/internal/models"
)

const staffColumns = `id, business_id, user_id, name, job_title, status, confirmed, hire_date, created_at, updated_at`

type StaffService struct {
	db *database.DB
}

func NewStaffService(db *database.DB) *StaffService {
	return &StaffService{db: db}
}

type CreateStaffInput struct {
	BusinessID uuid.UUID
	UserID     *uuid.UUID
	Name       string
	JobTitle   string
	HireDate   *time.Time
	Message    string
}

func scanStaff(row pgx.Row) (*models.StaffMember, error) {
	var s models.StaffMember
	err := row.Scan(
		&s.ID, &s.BusinessID, &s.UserID, &s.Name, &s.JobTitle,
		&s.Status, &s.Confirmed, &s.HireDate, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return &s, nil
}

func collectStaff(rows pgx.Rows) ([]models.StaffMember, error) {
	defer rows.Close()
	staff := []models.StaffMember{}
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		staff = append(staff, *s)
	}
	return staff, rows.Err()
}

// Create adds a staff member to a business owned by actorID. A staff member
// linked to a user starts unconfirmed with a pending invitation, created in
// the same transaction. The invitation is nil for unlinked staff.
func (s *StaffService) Create(ctx context.Context, actorID uuid.UUID, in CreateStaffInput) (*models.StaffMember, *models.StaffInvitation, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, nil, invalid("name", "is required")
	}
	if in.UserID != nil && *in.UserID == actorID {
		return nil, nil, invalid("user_id", "you cannot add yourself as staff")
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var ownerID uuid.UUID
	var businessName string
	err = tx.QueryRow(ctx, `SELECT owner_id, name FROM businesses WHERE id = $1`, in.BusinessID).Scan(&ownerID, &businessName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrBusinessNotFound
		}
		return nil, nil, fmt.Errorf("failed to load business: %w", err)
	}
	if ownerID != actorID {
		return nil, nil, ErrForbidden
	}

	if in.UserID != nil {
		var active bool
		err = tx.QueryRow(ctx, `SELECT is_active FROM users WHERE id = $1`, *in.UserID).Scan(&active)
		if errors.Is(err, pgx.ErrNoRows) || (err == nil && !active) {
			return nil, nil, invalid("user_id", "user does not exist or is inactive")
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load user: %w", err)
		}
	}

	confirmed := in.UserID == nil
	staff, err := scanStaff(tx.QueryRow(ctx, `
		INSERT INTO business_staff (business_id, user_id, name, job_title, status, confirmed, hire_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+staffColumns,
		in.BusinessID, in.UserID, in.Name, in.JobTitle, models.StaffStatusActive, confirmed, in.HireDate))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create staff member: %w", err)
	}

	var invitation *models.StaffInvitation
	if in.UserID != nil {
		invitation, err = scanInvitation(tx.QueryRow(ctx, `
			INSERT INTO staff_invitations (staff_id, business_id, worker_id, status, message)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+invitationColumns,
			staff.ID, in.BusinessID, *in.UserID, models.InvitationStatusPending, in.Message))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create invitation: %w", err)
		}
		invitation.BusinessName = businessName
		invitation.JobTitle = staff.JobTitle
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return staff, invitation, nil
}

func (s *StaffService) GetByID(ctx context.Context, id uuid.UUID) (*models.StaffMember, error) {
	return scanStaff(s.db.Pool.QueryRow(ctx, `
		SELECT `+staffColumns+`
		FROM business_staff WHERE id = $1
	`, id))
}

// Get returns a staff record visible to actorID: the business owner or the
// linked worker.
func (s *StaffService) Get(ctx context.Context, actorID, id uuid.UUID) (*models.StaffMember, error) {
	staff, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if staff.IsLinkedTo(actorID) {
		return staff, nil
	}
	owner, err := s.businessOwner(ctx, staff.BusinessID)
	if err != nil {
		return nil, err
	}
	if owner != actorID {
		return nil, ErrStaffNotFound
	}
	return staff, nil
}

func (s *StaffService) ListForBusiness(ctx context.Context, actorID, businessID uuid.UUID) ([]models.StaffMember, error) {
	owner, err := s.businessOwner(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if owner != actorID {
		return nil, ErrForbidden
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+staffColumns+`
		FROM business_staff WHERE business_id = $1
		ORDER BY name
	`, businessID)
	if err != nil {
		return nil, err
	}
	return collectStaff(rows)
}

// ListClockable returns the confirmed, active staff records linked to userID.
func (s *StaffService) ListClockable(ctx context.Context, userID uuid.UUID) ([]models.StaffMember, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+staffColumns+`
		FROM business_staff
		WHERE user_id = $1 AND confirmed = TRUE AND status = $2
		ORDER BY created_at
	`, userID, models.StaffStatusActive)
	if err != nil {
		return nil, err
	}
	return collectStaff(rows)
}

func (s *StaffService) businessOwner(ctx context.Context, businessID uuid.UUID) (uuid.UUID, error) {
	var ownerID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `SELECT owner_id FROM businesses WHERE id = $1`, businessID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrBusinessNotFound
	}
	return ownerID, err
}
