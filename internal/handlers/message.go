package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"

	"github.com/shatayaglobal/Manpower/internal/hub"
	"github.com/shatayaglobal/Manpower/internal/middleware"
	"github.com/shatayaglobal/Manpower/pkg/dto"
)

// MessageHandler is the REST side of chat. Every write is pushed to the
// affected users' live connections after it is stored.
type MessageHandler struct {
	messageService MessageServiceInterface
	hub            HubInterface
	log            *zap.Logger
}

func NewMessageHandler(messageService MessageServiceInterface, hub HubInterface, log *zap.Logger) *MessageHandler {
	return &MessageHandler{messageService: messageService, hub: hub, log: log}
}

// unreadTotal is best effort: a failed count is logged and reported as zero
// so the stored message still reaches the client.
func (h *MessageHandler) unreadTotal(c *drift.Context, userID uuid.UUID) int {
	count, err := h.messageService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		h.log.Warn("failed to count unread messages", zap.String("user_id", userID.String()), zap.Error(err))
		return 0
	}
	return count.Total
}

func (h *MessageHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	otherID, err := uuid.Parse(c.QueryParam("other_user"))
	if err != nil {
		respondValidation(c, "other_user query parameter is required")
		return
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			respondValidation(c, "limit must be a number")
			return
		}
	}

	messages, err := h.messageService.ListConversation(c.Request.Context(), userID, otherID, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, messages)
}

func (h *MessageHandler) Send(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	var req dto.SendMessageRequest
	if err := c.BindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	msg, err := h.messageService.Send(ctx, userID, req.ReceiverID, req.Message, req.MessageType, req.JobApplicationID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.hub.PublishToUser(ctx, msg.ReceiverID, hub.NewMessage(msg, h.unreadTotal(c, msg.ReceiverID)))
	h.hub.PublishToUser(ctx, userID, hub.MessageSent(msg))

	_ = c.JSON(http.StatusCreated, msg)
}

func (h *MessageHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	messageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateMessageRequest
	if err := c.BindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	msg, err := h.messageService.Update(c.Request.Context(), userID, messageID, req.Message)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, msg)
}

func (h *MessageHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	messageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.messageService.Delete(c.Request.Context(), userID, messageID); err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, map[string]string{"message": "message deleted"})
}

func (h *MessageHandler) Conversations(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	conversations, err := h.messageService.Conversations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, conversations)
}

func (h *MessageHandler) MarkRead(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	var req dto.MarkReadRequest
	if err := c.BindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}
	if req.OtherUserID == uuid.Nil {
		respondValidation(c, "other_user_id is required")
		return
	}

	ctx := c.Request.Context()
	marked, err := h.messageService.MarkRead(ctx, userID, req.OtherUserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.hub.PublishToUser(ctx, userID, hub.MessagesMarkedRead(req.OtherUserID, h.unreadTotal(c, userID)))

	_ = c.JSON(http.StatusOK, dto.MarkReadResponse{MarkedCount: marked})
}

func (h *MessageHandler) MarkAllRead(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	marked, err := h.messageService.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.MarkReadResponse{MarkedCount: marked})
}

func (h *MessageHandler) UnreadCount(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	count, err := h.messageService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, count)
}

func (h *MessageHandler) Statistics(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	stats, err := h.messageService.Statistics(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, stats)
}
