package models

import (
	"time"

	"github.com/google/uuid"
)

// Global user roles (platform-wide permissions)
const (
	GlobalRoleAdmin = "admin"
	GlobalRoleUser  = "user"
)

type User struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	IsActive   bool      `json:"is_active"`
	GlobalRole string    `json:"global_role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.GlobalRole == GlobalRoleAdmin
}
