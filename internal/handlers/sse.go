package handlers

import (
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"

	"github.com/shatayaglobal/Manpower/internal/hub"
	"github.com/shatayaglobal/Manpower/internal/middleware"
)

// SSEHandler streams the same per-user events as the websocket endpoint to
// clients that cannot hold a socket open. It is receive-only.
type SSEHandler struct {
	hub HubInterface
	log *zap.Logger
}

func NewSSEHandler(hub HubInterface, log *zap.Logger) *SSEHandler {
	return &SSEHandler{hub: hub, log: log}
}

func (h *SSEHandler) Connect(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondUnauthorized(c)
		return
	}

	sseCtx := c.SSE()

	client := h.hub.NewClient(userID)
	h.hub.Join(client)
	defer h.hub.Leave(client)

	if err := sseCtx.SendJSON(hub.Connected(userID), hub.EventConnected, ""); err != nil {
		return
	}

	done := c.Request.Context().Done()
	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "message", ""); err != nil {
				h.log.Debug("sse write failed", zap.String("client_id", client.ID), zap.Error(err))
				return
			}
		case <-done:
			return
		}
	}
}
