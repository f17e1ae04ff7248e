package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/websocket"
	"go.uber.org/zap"

	"github.com/shatayaglobal/Manpower/internal/hub"
	"github.com/shatayaglobal/Manpower/pkg/dto"
)

const (
	wsPingInterval = 30 * time.Second
	wsWriteTimeout = 10 * time.Second
)

const (
	frameSendMessage = "send_message"
	frameMarkRead    = "mark_read"
)

// ClientFrame is an inbound chat frame.
type ClientFrame struct {
	Type string `json:"type"`

	// send_message
	ReceiverID  string `json:"receiver_id,omitempty"`
	Message     string `json:"message,omitempty"`
	MessageType string `json:"message_type,omitempty"`

	// mark_read
	OtherUserID string `json:"other_user_id,omitempty"`
}

type WebSocketHandler struct {
	hub            HubInterface
	jwtService     JWTServiceInterface
	userService    UserServiceInterface
	messageService MessageServiceInterface
	log            *zap.Logger
}

func NewWebSocketHandler(hub HubInterface, jwtService JWTServiceInterface, userService UserServiceInterface, messageService MessageServiceInterface, log *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            hub,
		jwtService:     jwtService,
		userService:    userService,
		messageService: messageService,
		log:            log,
	}
}

func (h *WebSocketHandler) Connect(c *drift.Context) {
	// Authenticate before upgrading; a rejected client never gets a socket.
	token := c.QueryParam("token")
	if token == "" {
		h.reject(c, "token is required")
		return
	}

	claims, err := h.jwtService.ValidateAccessToken(token)
	if err != nil {
		h.reject(c, "invalid token")
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil || !user.IsActive {
		h.reject(c, "user not found or inactive")
		return
	}

	conn, err := websocket.Upgrade(c)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := h.hub.NewClient(user.ID)
	h.hub.Join(client)
	h.hub.SendToClient(client, hub.Connected(user.ID))

	log := h.log.With(zap.String("user_id", user.ID.String()), zap.String("client_id", client.ID))
	log.Info("websocket connected")

	writerDone := make(chan struct{})
	go h.writePump(conn, client, writerDone, log)

	ctx := c.Request.Context()
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}
		h.handleFrame(ctx, client, data)
	}

	h.hub.Leave(client)
	<-writerDone
	_ = conn.Close(websocket.CloseNormalClosure, "")
	log.Info("websocket disconnected")
}

func (h *WebSocketHandler) reject(c *drift.Context, message string) {
	_ = c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Code: dto.CodeUnauthorized, Message: message})
}

// writePump is the only goroutine that writes to conn. It exits when the
// client's queue is closed or a write fails.
func (h *WebSocketHandler) writePump(conn *websocket.Conn, client *hub.Client, done chan<- struct{}, log *zap.Logger) {
	defer close(done)

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteText(string(msg)); err != nil {
				log.Debug("websocket write failed", zap.Error(err))
				_ = conn.Close(websocket.CloseNormalClosure, "")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.Ping(nil); err != nil {
				_ = conn.Close(websocket.CloseNormalClosure, "")
				return
			}
		}
	}
}

func (h *WebSocketHandler) handleFrame(ctx context.Context, client *hub.Client, data []byte) {
	var frame ClientFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		h.hub.SendToClient(client, hub.Error(dto.CodeValidationFailed, "invalid JSON"))
		return
	}

	switch frame.Type {
	case frameSendMessage:
		h.handleSendMessage(ctx, client, frame)
	case frameMarkRead:
		h.handleMarkRead(ctx, client, frame)
	default:
		h.hub.SendToClient(client, hub.Error(dto.CodeValidationFailed, "unknown event type"))
	}
}

func (h *WebSocketHandler) handleSendMessage(ctx context.Context, client *hub.Client, frame ClientFrame) {
	receiverID, err := uuid.Parse(frame.ReceiverID)
	if err != nil || frame.Message == "" {
		h.hub.SendToClient(client, hub.Error(dto.CodeValidationFailed, "missing receiver_id or message"))
		return
	}

	msg, err := h.messageService.Send(ctx, client.UserID, receiverID, frame.Message, frame.MessageType, nil)
	if err != nil {
		h.sendError(client, err)
		return
	}

	unread := 0
	if count, err := h.messageService.UnreadCount(ctx, receiverID); err != nil {
		h.log.Warn("failed to load unread count", zap.String("user_id", receiverID.String()), zap.Error(err))
	} else {
		unread = count.Total
	}

	h.hub.PublishToUser(ctx, receiverID, hub.NewMessage(msg, unread))
	h.hub.SendToClient(client, hub.MessageSent(msg))
}

func (h *WebSocketHandler) handleMarkRead(ctx context.Context, client *hub.Client, frame ClientFrame) {
	otherID, err := uuid.Parse(frame.OtherUserID)
	if err != nil {
		h.hub.SendToClient(client, hub.Error(dto.CodeValidationFailed, "missing other_user_id"))
		return
	}

	if _, err := h.messageService.MarkRead(ctx, client.UserID, otherID); err != nil {
		h.sendError(client, err)
		return
	}

	count, err := h.messageService.UnreadCount(ctx, client.UserID)
	if err != nil {
		h.sendError(client, err)
		return
	}

	h.hub.SendToClient(client, hub.MessagesMarkedRead(otherID, count.Total))
}

func (h *WebSocketHandler) sendError(client *hub.Client, err error) {
	status, body := apiError(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("websocket frame failed", zap.String("client_id", client.ID), zap.Error(err))
	}
	h.hub.SendToClient(client, hub.Error(body.Code, body.Message))
}
