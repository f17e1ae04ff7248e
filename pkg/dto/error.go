package dto

const (
	CodeValidationFailed        = "VALIDATION_FAILED"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeForbidden               = "FORBIDDEN"
	CodeNotFound                = "NOT_FOUND"
	CodeDuplicateHoursCard      = "DUPLICATE_HOURS_CARD"
	CodeAlreadyClockedOut       = "ALREADY_CLOCKED_OUT"
	CodeNotClockedOut           = "NOT_CLOCKED_OUT"
	CodeAlreadySigned           = "ALREADY_SIGNED"
	CodeNotSigned               = "NOT_SIGNED"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeOutsideGeofence         = "OUTSIDE_GEOFENCE"
	CodeLocationRequired        = "LOCATION_REQUIRED"
	CodeWorkplaceNotConfigured  = "WORKPLACE_NOT_CONFIGURED"
	CodeMessageNotEditable      = "MESSAGE_NOT_EDITABLE"
	CodeInternalError           = "INTERNAL_ERROR"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type DuplicateHoursCardDetails struct {
	ExistingHoursCardID string `json:"existing_hours_card_id"`
}

type GeofenceDetails struct {
	DistanceMeters float64 `json:"distance_meters"`
	RadiusMeters   int     `json:"radius_meters"`
}

type FieldErrorDetails struct {
	Field string `json:"field"`
}
