package hub

import (
	"github.com/google/uuid"

	"github.com/shatayaglobal/Manpower/internal/models"
)

const (
	EventConnected          = "connected"
	EventNewMessage         = "new_message"
	EventMessageSent        = "message_sent"
	EventMessagesMarkedRead = "messages_marked_read"
	EventInvitationUpdate   = "invitation_update"
	EventError              = "error"
)

const (
	InvitationNew          = "new_invitation"
	InvitationAccepted     = "accepted"
	InvitationCountChanged = "count_changed"
)

type ConnectedEvent struct {
	Type   string    `json:"type"`
	UserID uuid.UUID `json:"user_id"`
}

// NewMessageEvent carries the receiver's total unread count.
type NewMessageEvent struct {
	Type        string          `json:"type"`
	Message     *models.Message `json:"message"`
	UnreadCount int             `json:"unread_count"`
}

type MessageSentEvent struct {
	Type    string          `json:"type"`
	Message *models.Message `json:"message"`
}

type MessagesMarkedReadEvent struct {
	Type        string    `json:"type"`
	OtherUserID uuid.UUID `json:"other_user_id"`
	UnreadCount int       `json:"unread_count"`
}

type InvitationUpdateEvent struct {
	Type   string `json:"type"`
	Action string `json:"action"`
}

type ErrorEvent struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

func Connected(userID uuid.UUID) ConnectedEvent {
	return ConnectedEvent{Type: EventConnected, UserID: userID}
}

func NewMessage(msg *models.Message, unread int) NewMessageEvent {
	return NewMessageEvent{Type: EventNewMessage, Message: msg, UnreadCount: unread}
}

func MessageSent(msg *models.Message) MessageSentEvent {
	return MessageSentEvent{Type: EventMessageSent, Message: msg}
}

func MessagesMarkedRead(otherUserID uuid.UUID, unread int) MessagesMarkedReadEvent {
	return MessagesMarkedReadEvent{Type: EventMessagesMarkedRead, OtherUserID: otherUserID, UnreadCount: unread}
}

func InvitationUpdate(action string) InvitationUpdateEvent {
	return InvitationUpdateEvent{Type: EventInvitationUpdate, Action: action}
}

func Error(code, message string) ErrorEvent {
	return ErrorEvent{Type: EventError, Code: code, Error: message}
}
