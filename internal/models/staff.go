package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StaffStatusActive     = "ACTIVE"
	StaffStatusInactive   = "INACTIVE"
	StaffStatusTerminated = "TERMINATED"
	StaffStatusOnLeave    = "ON_LEAVE"
)

type StaffMember struct {
	ID         uuid.UUID  `json:"id"`
	BusinessID uuid.UUID  `json:"business_id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	Name       string     `json:"name"`
	JobTitle   string     `json:"job_title"`
	Status     string     `json:"status"`
	Confirmed  bool       `json:"confirmed"`
	HireDate   *time.Time `json:"hire_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsLinkedTo reports whether the staff record belongs to userID.
func (s *StaffMember) IsLinkedTo(userID uuid.UUID) bool {
	return s.UserID != nil && *s.UserID == userID
}

// CanClockIn is true once the worker has accepted the invitation and the
// record is active.
func (s *StaffMember) CanClockIn() bool {
	return s.Confirmed && s.Status == StaffStatusActive
}
