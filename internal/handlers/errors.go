package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"

	"github.com/shatayaglobal/Manpower/internal/services"
	"github.com/shatayaglobal/Manpower/pkg/dto"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// errorTable maps service errors to HTTP status and machine code. Typed
// errors are resolved in apiError before this table is consulted.
var errorTable = []errorMapping{
	{services.ErrValidation, http.StatusBadRequest, dto.CodeValidationFailed},
	{services.ErrForbidden, http.StatusForbidden, dto.CodeForbidden},

	{services.ErrUserNotFound, http.StatusNotFound, dto.CodeNotFound},
	{services.ErrBusinessNotFound, http.StatusNotFound, dto.CodeNotFound},
	{services.ErrStaffNotFound, http.StatusNotFound, dto.CodeNotFound},
	{services.ErrInvitationNotFound, http.StatusNotFound, dto.CodeNotFound},
	{services.ErrHoursCardNotFound, http.StatusNotFound, dto.CodeNotFound},
	{services.ErrMessageNotFound, http.StatusNotFound, dto.CodeNotFound},

	{services.ErrAlreadyClockedOut, http.StatusConflict, dto.CodeAlreadyClockedOut},
	{services.ErrNotClockedOut, http.StatusConflict, dto.CodeNotClockedOut},
	{services.ErrAlreadySigned, http.StatusConflict, dto.CodeAlreadySigned},
	{services.ErrNotSigned, http.StatusConflict, dto.CodeNotSigned},
	{services.ErrInvalidStatusTransition, http.StatusConflict, dto.CodeInvalidStatusTransition},
	{services.ErrMessageNotEditable, http.StatusConflict, dto.CodeMessageNotEditable},

	{services.ErrLocationRequired, http.StatusBadRequest, dto.CodeLocationRequired},
	{services.ErrWorkplaceNotConfigured, http.StatusBadRequest, dto.CodeWorkplaceNotConfigured},
}

// apiError converts err into a response status and body. Unknown errors
// become a 500 with a generic message.
func apiError(err error) (int, dto.ErrorResponse) {
	var dup *services.DuplicateHoursCardError
	if errors.As(err, &dup) {
		return http.StatusConflict, dto.ErrorResponse{
			Code:    dto.CodeDuplicateHoursCard,
			Message: "an hours card already exists for this date; edit it instead",
			Details: dto.DuplicateHoursCardDetails{ExistingHoursCardID: dup.ExistingID.String()},
		}
	}

	var geo *services.GeofenceError
	if errors.As(err, &geo) {
		return http.StatusForbidden, dto.ErrorResponse{
			Code:    dto.CodeOutsideGeofence,
			Message: geo.Error(),
			Details: dto.GeofenceDetails{DistanceMeters: geo.DistanceMeters, RadiusMeters: geo.RadiusMeters},
		}
	}

	var verr *services.ValidationError
	if errors.As(err, &verr) {
		resp := dto.ErrorResponse{Code: dto.CodeValidationFailed, Message: verr.Error()}
		if verr.Field != "" {
			resp.Details = dto.FieldErrorDetails{Field: verr.Field}
		}
		return http.StatusBadRequest, resp
	}

	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			return m.status, dto.ErrorResponse{Code: m.code, Message: m.target.Error()}
		}
	}

	return http.StatusInternalServerError, dto.ErrorResponse{
		Code:    dto.CodeInternalError,
		Message: "internal server error",
	}
}

func respondError(c *drift.Context, log *zap.Logger, err error) {
	status, body := apiError(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	_ = c.JSON(status, body)
}

func respondValidation(c *drift.Context, message string) {
	_ = c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: dto.CodeValidationFailed, Message: message})
}

func respondUnauthorized(c *drift.Context) {
	_ = c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Code: dto.CodeUnauthorized, Message: "not authenticated"})
}

// bindOptionalJSON decodes the body into obj. An empty body leaves obj
// untouched. Content-Length is not consulted since chunked bodies report -1.
func bindOptionalJSON(c *drift.Context, obj any) error {
	if err := c.BindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func parseIDParam(c *drift.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondValidation(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter.
func parseDateQuery(c *drift.Context, name string) (*time.Time, bool) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, true
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		respondValidation(c, name+" must be a date in YYYY-MM-DD format")
		return nil, false
	}
	return &d, true
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
