package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"

	"github.com/shatayaglobal/Manpower/internal/hub"
	"github.com/shatayaglobal/Manpower/internal/middleware"
	"github.com/shatayaglobal/Manpower/internal/models"
	"github.com/shatayaglobal/Manpower/internal/services"
	"github.com/shatayaglobal/Manpower/pkg/dto"
)

const emailLookupTimeout = 10 * time.Second

type StaffHandler struct {
	staffService StaffServiceInterface
	userService  UserServiceInterface
	emailService EmailServiceInterface
	hub          HubInterface
	baseURL      string
	log          *zap.Logger
}

func NewStaffHandler(staffService StaffServiceInterface, userService UserServiceInterface, emailService EmailServiceInterface, hub HubInterface, baseURL string, log *zap.Logger) *StaffHandler {
	return &StaffHandler{
		staffService: staffService,
		userService:  userService,
		emailService: emailService,
		hub:          hub,
		baseURL:      strings.TrimRight(baseURL, "/"),
		log:          log,
	}
}

func toStaffResponse(s *models.StaffMember) dto.StaffResponse {
	resp := dto.StaffResponse{
		ID:         s.ID,
		BusinessID: s.BusinessID,
		UserID:     s.UserID,
		Name:       s.Name,
		JobTitle:   s.JobTitle,
		Status:     s.Status,
		Confirmed:  s.Confirmed,
		CreatedAt:  formatTime(s.CreatedAt),
	}
	if s.HireDate != nil {
		d := s.HireDate.Format(time.DateOnly)
		resp.HireDate = &d
	}
	return resp
}

func (h *StaffHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	var req dto.CreateStaffRequest
	if err := c.BindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}
	if req.BusinessID == uuid.Nil {
		respondValidation(c, "business_id is required")
		return
	}

	in := services.CreateStaffInput{
		BusinessID: req.BusinessID,
		UserID:     req.UserID,
		Name:       req.Name,
		JobTitle:   req.JobTitle,
		Message:    req.Message,
	}
	if req.HireDate != nil && *req.HireDate != "" {
		d, err := time.Parse(time.DateOnly, *req.HireDate)
		if err != nil {
			respondValidation(c, "hire_date must be a date in YYYY-MM-DD format")
			return
		}
		in.HireDate = &d
	}

	ctx := c.Request.Context()
	staff, invitation, err := h.staffService.Create(ctx, userID, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := dto.CreateStaffResponse{Staff: toStaffResponse(staff)}
	if invitation != nil {
		inv := toInvitationResponse(invitation)
		resp.Invitation = &inv

		h.hub.PublishToUser(ctx, invitation.WorkerID, hub.InvitationUpdate(hub.InvitationNew))
		go h.notifyByEmail(context.WithoutCancel(ctx), invitation)
	}

	_ = c.JSON(http.StatusCreated, resp)
}

// notifyByEmail tells the invited worker about the invitation. It runs off
// the request path; failures are logged and otherwise ignored.
func (h *StaffHandler) notifyByEmail(ctx context.Context, invitation *models.StaffInvitation) {
	ctx, cancel := context.WithTimeout(ctx, emailLookupTimeout)
	defer cancel()

	worker, err := h.userService.GetByID(ctx, invitation.WorkerID)
	if err != nil {
		h.log.Warn("failed to load invited worker", zap.String("worker_id", invitation.WorkerID.String()), zap.Error(err))
		return
	}

	url := h.baseURL + "/workforce/invitations"
	if err := h.emailService.SendStaffInvitation(worker.Email, invitation.BusinessName, invitation.JobTitle, url); err != nil {
		h.log.Warn("failed to send invitation email", zap.String("worker_id", worker.ID.String()), zap.Error(err))
	}
}

func (h *StaffHandler) List(c *drift.Context) {
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

	staff, err := h.staffService.ListForBusiness(c.Request.Context(), userID, businessID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := make([]dto.StaffResponse, len(staff))
	for i := range staff {
		resp[i] = toStaffResponse(&staff[i])
	}
	_ = c.JSON(http.StatusOK, resp)
}

func (h *StaffHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	staffID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	staff, err := h.staffService.Get(c.Request.Context(), userID, staffID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, toStaffResponse(staff))
}
