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

const userColumns = `id, email, name, is_active, global_role, created_at, updated_at`

type UserService struct {
	db *database.DB
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.IsActive,
		&user.GlobalRole, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE id = $1
	`, id))
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE email = $1
	`, email))
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	return scanUser(s.db.Pool.QueryRow(ctx, `
		UPDATE users SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns, name, id))
}

// SetGlobalRole changes the platform-wide role of the user with the given
// email.
func (s *UserService) SetGlobalRole(ctx context.Context, email, role string) error {
	if role != models.GlobalRoleAdmin && role != models.GlobalRoleUser {
		return invalid("role", "unknown role")
	}

	result, err := s.db.Pool.Exec(ctx, `
		UPDATE users SET global_role = $1, updated_at = NOW()
		WHERE email = $2
	`, role, email)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// IsActiveUser reports whether the user exists and is active.
func (s *UserService) IsActiveUser(ctx context.Context, id uuid.UUID) (bool, error) {
	var active bool
	err := s.db.Pool.QueryRow(ctx, `SELECT is_active FROM users WHERE id = $1`, id).Scan(&active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return active, nil
}
