package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"

	"github.com/shatayaglobal/Manpower/internal/middleware"
	"github.com/shatayaglobal/Manpower/internal/models"
	"github.com/shatayaglobal/Manpower/internal/services"
	"github.com/shatayaglobal/Manpower/pkg/dto"
)

type BusinessHandler struct {
	businessService BusinessServiceInterface
	log             *zap.Logger
}

func NewBusinessHandler(businessService BusinessServiceInterface, log *zap.Logger) *BusinessHandler {
	return &BusinessHandler{businessService: businessService, log: log}
}

func toBusinessResponse(b *models.Business) dto.BusinessResponse {
	return dto.BusinessResponse{
		ID:                        b.ID,
		OwnerID:                   b.OwnerID,
		Name:                      b.Name,
		WorkplaceLatitude:         b.WorkplaceLatitude,
		WorkplaceLongitude:        b.WorkplaceLongitude,
		ClockInRadiusMeters:       b.ClockInRadiusMeters,
		RequireLocationForClockIn: b.RequireLocationForClockIn,
	}
}

// UpdateLocation changes the workplace coordinate and clock-in geofence.
func (h *BusinessHandler) UpdateLocation(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	businessID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateLocationRequest
	if err := c.BindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	business, err := h.businessService.UpdateLocation(c.Request.Context(), userID, businessID, services.LocationSettings{
		WorkplaceLatitude:         req.WorkplaceLatitude,
		WorkplaceLongitude:        req.WorkplaceLongitude,
		ClockInRadiusMeters:       req.ClockInRadiusMeters,
		RequireLocationForClockIn: req.RequireLocationForClockIn,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, toBusinessResponse(business))
}
