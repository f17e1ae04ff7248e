package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"

	"github.com/shatayaglobal/Manpower/internal/middleware"
	"github.com/shatayaglobal/Manpower/internal/models"
	"github.com/shatayaglobal/Manpower/internal/services"
	"github.com/shatayaglobal/Manpower/pkg/dto"
)

type HoursCardHandler struct {
	hoursCardService HoursCardServiceInterface
	log              *zap.Logger
}

func NewHoursCardHandler(hoursCardService HoursCardServiceInterface, log *zap.Logger) *HoursCardHandler {
	return &HoursCardHandler{hoursCardService: hoursCardService, log: log}
}

// toHoursCardResponse renders instants in the offset the card was clocked in
// with, so clients see the worker's wall clock.
func toHoursCardResponse(card *models.HoursCard) dto.HoursCardResponse {
	loc := card.Location()
	inLoc := func(t *time.Time) *string {
		if t == nil {
			return nil
		}
		s := t.In(loc).Format(time.RFC3339)
		return &s
	}

	return dto.HoursCardResponse{
		ID:                    card.ID,
		StaffID:               card.StaffID,
		ShiftID:               card.ShiftID,
		Date:                  card.Date.Format(time.DateOnly),
		ClockIn:               card.ClockInAt.In(loc).Format(time.RFC3339),
		ClockOut:              inLoc(card.ClockOutAt),
		BreakStart:            inLoc(card.BreakStartAt),
		BreakEnd:              inLoc(card.BreakEndAt),
		UTCOffsetMinutes:      card.UTCOffsetMinutes,
		ClockInLatitude:       card.ClockInLatitude,
		ClockInLongitude:      card.ClockInLongitude,
		ClockInDistanceMeters: card.ClockInDistanceMeters,
		Notes:                 card.Notes,
		WorkerSignature:       card.WorkerSignature,
		WorkerSignedAt:        formatTimePtr(card.WorkerSignedAt),
		Status:                card.Status,
		TotalHoursDecimal:     card.TotalHoursDecimal(),
		ApprovedBy:            card.ApprovedBy,
		ApprovedAt:            formatTimePtr(card.ApprovedAt),
		RejectionReason:       card.RejectionReason,
		ClockedInBy:           card.ClockedInBy,
		ClockedOutBy:          card.ClockedOutBy,
		CreatedAt:             formatTime(card.CreatedAt),
		UpdatedAt:             formatTime(card.UpdatedAt),
	}
}

func toHoursCardResponses(cards []models.HoursCard) []dto.HoursCardResponse {
	resp := make([]dto.HoursCardResponse, len(cards))
	for i := range cards {
		resp[i] = toHoursCardResponse(&cards[i])
	}
	return resp
}

func (h *HoursCardHandler) ClockIn(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	var req dto.ClockInRequest
	if err := c.BindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	card, err := h.hoursCardService.ClockIn(c.Request.Context(), userID, services.ClockInInput{
		StaffID:        req.StaffID,
		ShiftID:        req.ShiftID,
		Notes:          req.Notes,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		TimezoneOffset: req.TimezoneOffset,
		Date:           req.Date,
		ClockInTime:    req.ClockInTime,
		ClockOutTime:   req.ClockOutTime,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusCreated, toHoursCardResponse(card))
}

func (h *HoursCardHandler) ClockOut(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ClockOutRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	card, err := h.hoursCardService.ClockOut(c.Request.Context(), userID, cardID, req.Notes)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, toHoursCardResponse(card))
}

func (h *HoursCardHandler) Sign(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SignHoursCardRequest
	if err := c.BindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	card, err := h.hoursCardService.Sign(c.Request.Context(), userID, cardID, req.Signature)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, toHoursCardResponse(card))
}

// Approve records the owner's decision on a signed card. An empty status
// means approval.
func (h *HoursCardHandler) Approve(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ReviewHoursCardRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status == "" {
		status = models.HoursCardApproved
	}

	card, err := h.hoursCardService.Review(c.Request.Context(), userID, cardID, status, req.RejectionReason)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, toHoursCardResponse(card))
}

func (h *HoursCardHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateHoursCardRequest
	if err := c.BindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	card, err := h.hoursCardService.Update(c.Request.Context(), userID, cardID, services.UpdateHoursCardInput{
		Notes:        req.Notes,
		ClockInTime:  req.ClockInTime,
		ClockOutTime: req.ClockOutTime,
		BreakStart:   req.BreakStart,
		BreakEnd:     req.BreakEnd,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, toHoursCardResponse(card))
}

func (h *HoursCardHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	card, err := h.hoursCardService.Get(c.Request.Context(), userID, cardID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, toHoursCardResponse(card))
}

// List returns a business's cards, filtered by status, staff member and
// date range.
func (h *HoursCardHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	businessID, err := uuid.Parse(c.QueryParam("business"))
	if err != nil {
		respondValidation(c, "business query parameter is required")
		return
	}

	filter := services.HoursCardFilter{
		BusinessID: businessID,
		Status:     strings.ToUpper(c.QueryParam("status")),
	}
	if raw := c.QueryParam("staff"); raw != "" {
		staffID, err := uuid.Parse(raw)
		if err != nil {
			respondValidation(c, "invalid staff ID")
			return
		}
		filter.StaffID = &staffID
	}

	var ok bool
	if filter.From, ok = parseDateQuery(c, "from"); !ok {
		return
	}
	if filter.To, ok = parseDateQuery(c, "to"); !ok {
		return
	}

	cards, err := h.hoursCardService.ListForBusiness(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, toHoursCardResponses(cards))
}

func (h *HoursCardHandler) ListMine(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	from, ok := parseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		return
	}

	cards, err := h.hoursCardService.ListMine(c.Request.Context(), userID, from, to)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, toHoursCardResponses(cards))
}

func (h *HoursCardHandler) AdminOverride(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	var req dto.AdminOverrideRequest
	if err := c.BindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	updated, err := h.hoursCardService.AdminOverride(c.Request.Context(), userID, req.HoursCardIDs, strings.ToUpper(req.Status), req.RejectionReason)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.AdminOverrideResponse{Updated: updated})
}
