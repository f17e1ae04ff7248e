package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	InvitationStatusPending  = "PENDING"
	InvitationStatusAccepted = "ACCEPTED"
	InvitationStatusRejected = "REJECTED"
)

type StaffInvitation struct {
	ID          uuid.UUID  `json:"id"`
	StaffID     uuid.UUID  `json:"staff_id"`
	BusinessID  uuid.UUID  `json:"business_id"`
	WorkerID    uuid.UUID  `json:"worker_id"`
	Status      string     `json:"status"`
	Message     string     `json:"message"`
	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at"`

	BusinessName string `json:"business_name,omitempty"`
	JobTitle     string `json:"job_title,omitempty"`
}
