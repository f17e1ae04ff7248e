package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shatayaglobal/Manpower/internal/database"
	"github.com/shatayaglobal/Manpower/internal/models"
)

const invitationColumns = `id, staff_id, business_id, worker_id, status, message, created_at, responded_at`

type InvitationService struct {
	db *database.DB
}

func NewInvitationService(db *database.DB) *InvitationService {
	return &InvitationService{db: db}
}

func scanInvitation(row pgx.Row) (*models.StaffInvitation, error) {
	var inv models.StaffInvitation
	err := row.Scan(
		&inv.ID, &inv.StaffID, &inv.BusinessID, &inv.WorkerID,
		&inv.Status, &inv.Message, &inv.CreatedAt, &inv.RespondedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// List returns the worker's invitations, newest first. An empty status
// returns every invitation.
func (s *InvitationService) List(ctx context.Context, workerID uuid.UUID, status string) ([]models.StaffInvitation, error) {
	switch status {
	case "", models.InvitationStatusPending, models.InvitationStatusAccepted, models.InvitationStatusRejected:
	default:
		return nil, invalid("status", "unknown invitation status")
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT i.id, i.staff_id, i.business_id, i.worker_id, i.status, i.message, i.created_at, i.responded_at,
			b.name, bs.job_title
		FROM staff_invitations i
		JOIN businesses b ON b.id = i.business_id
		JOIN business_staff bs ON bs.id = i.staff_id
		WHERE i.worker_id = $1 AND ($2 = '' OR i.status = $2)
		ORDER BY i.created_at DESC
	`, workerID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invitations := []models.StaffInvitation{}
	for rows.Next() {
		var inv models.StaffInvitation
		if err := rows.Scan(
			&inv.ID, &inv.StaffID, &inv.BusinessID, &inv.WorkerID, &inv.Status, &inv.Message,
			&inv.CreatedAt, &inv.RespondedAt, &inv.BusinessName, &inv.JobTitle,
		); err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

func (s *InvitationService) PendingCount(ctx context.Context, workerID uuid.UUID) (int, error) {
	var count int
	err := s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM staff_invitations
		WHERE worker_id = $1 AND status = $2
	`, workerID, models.InvitationStatusPending).Scan(&count)
	return count, err
}

// Accept resolves a pending invitation addressed to workerID and activates
// the staff record.
func (s *InvitationService) Accept(ctx context.Context, invitationID, workerID uuid.UUID) (*models.StaffInvitation, error) {
	return s.respond(ctx, invitationID, workerID, models.InvitationStatusAccepted, true, models.StaffStatusActive)
}

// Reject resolves a pending invitation addressed to workerID and deactivates
// the staff record.
func (s *InvitationService) Reject(ctx context.Context, invitationID, workerID uuid.UUID) (*models.StaffInvitation, error) {
	return s.respond(ctx, invitationID, workerID, models.InvitationStatusRejected, false, models.StaffStatusInactive)
}

func (s *InvitationService) respond(ctx context.Context, invitationID, workerID uuid.UUID, status string, confirmed bool, staffStatus string) (*models.StaffInvitation, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Unknown, foreign and already-resolved invitations all match zero rows.
	inv, err := scanInvitation(tx.QueryRow(ctx, `
		UPDATE staff_invitations SET status = $1, responded_at = NOW()
		WHERE id = $2 AND worker_id = $3 AND status = $4
		RETURNING `+invitationColumns,
		status, invitationID, workerID, models.InvitationStatusPending))
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE business_staff SET confirmed = $1, status = $2, updated_at = NOW()
		WHERE id = $3
	`, confirmed, staffStatus, inv.StaffID)
	if err != nil {
		return nil, fmt.Errorf("failed to update staff member: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inv, nil
}
