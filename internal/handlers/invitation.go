package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"

	"github.com/shatayaglobal/Manpower/internal/hub"
	"github.com/shatayaglobal/Manpower/internal/middleware"
	"github.com/shatayaglobal/Manpower/internal/models"
	"github.com/shatayaglobal/Manpower/pkg/dto"
)

type InvitationHandler struct {
	invitationService InvitationServiceInterface
	hub               HubInterface
	log               *zap.Logger
}

func NewInvitationHandler(invitationService InvitationServiceInterface, hub HubInterface, log *zap.Logger) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService, hub: hub, log: log}
}

func toInvitationResponse(inv *models.StaffInvitation) dto.InvitationResponse {
	return dto.InvitationResponse{
		ID:           inv.ID,
		StaffID:      inv.StaffID,
		BusinessID:   inv.BusinessID,
		BusinessName: inv.BusinessName,
		JobTitle:     inv.JobTitle,
		Status:       inv.Status,
		Message:      inv.Message,
		CreatedAt:    formatTime(inv.CreatedAt),
		RespondedAt:  formatTimePtr(inv.RespondedAt),
	}
}

func (h *InvitationHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	invitations, err := h.invitationService.List(c.Request.Context(), userID, c.QueryParam("status"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := make([]dto.InvitationResponse, len(invitations))
	for i := range invitations {
		resp[i] = toInvitationResponse(&invitations[i])
	}
	_ = c.JSON(http.StatusOK, resp)
}

func (h *InvitationHandler) Count(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	count, err := h.invitationService.PendingCount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.InvitationCountResponse{PendingCount: count})
}

func (h *InvitationHandler) Accept(c *drift.Context) {
	h.respond(c, true)
}

func (h *InvitationHandler) Reject(c *drift.Context) {
	h.respond(c, false)
}

func (h *InvitationHandler) respond(c *drift.Context, accept bool) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	invitationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	var invitation *models.StaffInvitation
	var err error
	action := hub.InvitationAccepted
	if accept {
		invitation, err = h.invitationService.Accept(ctx, invitationID, userID)
	} else {
		invitation, err = h.invitationService.Reject(ctx, invitationID, userID)
		action = hub.InvitationCountChanged
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.hub.PublishToUser(ctx, userID, hub.InvitationUpdate(action))

	_ = c.JSON(http.StatusOK, toInvitationResponse(invitation))
}
