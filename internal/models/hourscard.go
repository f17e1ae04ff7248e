package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	HoursCardPending  = "PENDING"
	HoursCardSigned   = "SIGNED"
	HoursCardApproved = "APPROVED"
	HoursCardRejected = "REJECTED"
	// Set by an admin override. An owner edit returns the card to pending.
	HoursCardRevised = "REVISED"
)

type HoursCard struct {
	ID                    uuid.UUID  `json:"id"`
	StaffID               uuid.UUID  `json:"staff_id"`
	ShiftID               *uuid.UUID `json:"shift_id,omitempty"`
	Date                  time.Time  `json:"date"`
	ClockInAt             time.Time  `json:"clock_in_at"`
	ClockOutAt            *time.Time `json:"clock_out_at"`
	UTCOffsetMinutes      int        `json:"utc_offset_minutes"`
	BreakStartAt          *time.Time `json:"break_start_at"`
	BreakEndAt            *time.Time `json:"break_end_at"`
	ClockInLatitude       *float64   `json:"clock_in_latitude"`
	ClockInLongitude      *float64   `json:"clock_in_longitude"`
	ClockInDistanceMeters *float64   `json:"clock_in_distance_meters"`
	Notes                 string     `json:"notes"`
	WorkerSignature       *string    `json:"worker_signature"`
	WorkerSignedAt        *time.Time `json:"worker_signed_at"`
	Status                string     `json:"status"`
	ApprovedBy            *uuid.UUID `json:"approved_by"`
	ApprovedAt            *time.Time `json:"approved_at"`
	RejectionReason       *string    `json:"rejection_reason"`
	ClockedInBy           *uuid.UUID `json:"clocked_in_by"`
	ClockedOutBy          *uuid.UUID `json:"clocked_out_by"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// IsClockedOut is the single definition of "clocked out" used by every
// transition.
func (h *HoursCard) IsClockedOut() bool {
	return h.ClockOutAt != nil
}

func (h *HoursCard) IsSigned() bool {
	return h.WorkerSignedAt != nil
}

func (h *HoursCard) IsTerminal() bool {
	return h.Status == HoursCardApproved || h.Status == HoursCardRejected
}

// Location returns the UTC offset the card was clocked in with, as a fixed
// zone. Offsets follow the browser convention (minutes UTC minus local).
func (h *HoursCard) Location() *time.Location {
	return OffsetLocation(h.UTCOffsetMinutes)
}

// TotalHours is worked time minus the break, never negative. Zero until
// clocked out.
func (h *HoursCard) TotalHours() time.Duration {
	if h.ClockOutAt == nil {
		return 0
	}
	total := h.ClockOutAt.Sub(h.ClockInAt)
	if h.BreakStartAt != nil && h.BreakEndAt != nil && h.BreakEndAt.After(*h.BreakStartAt) {
		total -= h.BreakEndAt.Sub(*h.BreakStartAt)
	}
	if total < 0 {
		return 0
	}
	return total
}

func (h *HoursCard) TotalHoursDecimal() float64 {
	return h.TotalHours().Hours()
}

// OffsetLocation converts a browser timezone offset (UTC minus local, in
// minutes) into a fixed zone.
func OffsetLocation(offsetMinutes int) *time.Location {
	return time.FixedZone("", -offsetMinutes*60)
}

// IsHoursCardStatus reports whether s is one of the known statuses.
func IsHoursCardStatus(s string) bool {
	switch s {
	case HoursCardPending, HoursCardSigned, HoursCardApproved, HoursCardRejected, HoursCardRevised:
		return true
	}
	return false
}
