package dto

import "github.com/google/uuid"

type CreateStaffRequest struct {
	BusinessID uuid.UUID  `json:"business_id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	Name       string     `json:"name"`
	JobTitle   string     `json:"job_title"`
	HireDate   *string    `json:"hire_date,omitempty"`
	Message    string     `json:"message,omitempty"`
}

type StaffResponse struct {
	ID         uuid.UUID  `json:"id"`
	BusinessID uuid.UUID  `json:"business_id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	Name       string     `json:"name"`
	JobTitle   string     `json:"job_title"`
	Status     string     `json:"status"`
	Confirmed  bool       `json:"confirmed"`
	HireDate   *string    `json:"hire_date,omitempty"`
	CreatedAt  string     `json:"created_at"`
}

type CreateStaffResponse struct {
	Staff      StaffResponse       `json:"staff"`
	Invitation *InvitationResponse `json:"invitation,omitempty"`
}

type InvitationResponse struct {
	ID           uuid.UUID `json:"id"`
	StaffID      uuid.UUID `json:"staff_id"`
	BusinessID   uuid.UUID `json:"business_id"`
	BusinessName string    `json:"business_name,omitempty"`
	JobTitle     string    `json:"job_title,omitempty"`
	Status       string    `json:"status"`
	Message      string    `json:"message"`
	CreatedAt    string    `json:"created_at"`
	RespondedAt  *string   `json:"responded_at"`
}

type InvitationCountResponse struct {
	PendingCount int `json:"pending_count"`
}

type ClockInRequest struct {
	StaffID        *uuid.UUID `json:"staff_id,omitempty"`
	ShiftID        *uuid.UUID `json:"shift_id,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
	TimezoneOffset int        `json:"timezone_offset"`
	Date           string     `json:"date,omitempty"`
	ClockInTime    string     `json:"clock_in_time,omitempty"`
	ClockOutTime   string     `json:"clock_out_time,omitempty"`
}

type ClockOutRequest struct {
	Notes *string `json:"notes,omitempty"`
}

type SignHoursCardRequest struct {
	Signature string `json:"signature"`
}

type ReviewHoursCardRequest struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

type UpdateHoursCardRequest struct {
	Notes        *string `json:"notes,omitempty"`
	ClockInTime  *string `json:"clock_in_time,omitempty"`
	ClockOutTime *string `json:"clock_out_time,omitempty"`
	BreakStart   *string `json:"break_start,omitempty"`
	BreakEnd     *string `json:"break_end,omitempty"`
}

type AdminOverrideRequest struct {
	HoursCardIDs    []uuid.UUID `json:"hours_card_ids"`
	Status          string      `json:"status"`
	RejectionReason string      `json:"rejection_reason,omitempty"`
}

type AdminOverrideResponse struct {
	Updated int64 `json:"updated"`
}

type HoursCardResponse struct {
	ID                    uuid.UUID  `json:"id"`
	StaffID               uuid.UUID  `json:"staff_id"`
	ShiftID               *uuid.UUID `json:"shift_id,omitempty"`
	Date                  string     `json:"date"`
	ClockIn               string     `json:"clock_in"`
	ClockOut              *string    `json:"clock_out"`
	BreakStart            *string    `json:"break_start"`
	BreakEnd              *string    `json:"break_end"`
	UTCOffsetMinutes      int        `json:"utc_offset_minutes"`
	ClockInLatitude       *float64   `json:"clock_in_latitude"`
	ClockInLongitude      *float64   `json:"clock_in_longitude"`
	ClockInDistanceMeters *float64   `json:"clock_in_distance_meters"`
	Notes                 string     `json:"notes"`
	WorkerSignature       *string    `json:"worker_signature"`
	WorkerSignedAt        *string    `json:"worker_signed_at"`
	Status                string     `json:"status"`
	TotalHoursDecimal     float64    `json:"total_hours_decimal"`
	ApprovedBy            *uuid.UUID `json:"approved_by"`
	ApprovedAt            *string    `json:"approved_at"`
	RejectionReason       *string    `json:"rejection_reason"`
	ClockedInBy           *uuid.UUID `json:"clocked_in_by"`
	ClockedOutBy          *uuid.UUID `json:"clocked_out_by"`
	CreatedAt             string     `json:"created_at"`
	UpdatedAt             string     `json:"updated_at"`
}
