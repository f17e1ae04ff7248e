package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"

	"github.com/shatayaglobal/Manpower/internal/middleware"
	"github.com/shatayaglobal/Manpower/internal/models"
	"github.com/shatayaglobal/Manpower/pkg/dto"
)

type UserHandler struct {
	userService UserServiceInterface
	log         *zap.Logger
}

func NewUserHandler(userService UserServiceInterface, log *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

func toUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		IsActive:   u.IsActive,
		GlobalRole: u.GlobalRole,
	}
}

func (h *UserHandler) GetMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) UpdateMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	var req dto.UpdateUserRequest
	if err := c.BindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondValidation(c, "name is required")
		return
	}

	user, err := h.userService.Update(c.Request.Context(), userID, req.Name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, toUserResponse(user))
}
