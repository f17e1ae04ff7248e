package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")

	ErrUserNotFound       = errors.New("user not found")
	ErrBusinessNotFound   = errors.New("business not found")
	ErrStaffNotFound      = errors.New("staff member not found")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrHoursCardNotFound  = errors.New("hours card not found")
	ErrMessageNotFound    = errors.New("message not found")

	ErrAlreadyClockedOut       = errors.New("hours card already clocked out")
	ErrNotClockedOut           = errors.New("hours card has not been clocked out")
	ErrAlreadySigned           = errors.New("hours card already signed")
	ErrNotSigned               = errors.New("hours card must be signed before review")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrLocationRequired        = errors.New("location is required to clock in")
	ErrWorkplaceNotConfigured  = errors.New("workplace location is not configured")
	ErrMessageNotEditable      = errors.New("message can no longer be edited")
)

// ValidationError names the offending field. It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// DuplicateHoursCardError is returned when a card already exists for the
// staff member on that date.
type DuplicateHoursCardError struct {
	ExistingID uuid.UUID
}

func (e *DuplicateHoursCardError) Error() string {
	return fmt.Sprintf("hours card already exists for this date: %s", e.ExistingID)
}

// GeofenceError is returned when a clock-in is farther from the workplace
// than the business allows.
type GeofenceError struct {
	DistanceMeters float64
	RadiusMeters   int
}

func (e *GeofenceError) Error() string {
	return fmt.Sprintf("you are %.0fm from the workplace; clock-in is allowed within %dm", e.DistanceMeters, e.RadiusMeters)
}
