package models

import (
	"time"

	"github.com/google/uuid"
)

const MaxMessageLength = 1000

const (
	MessageTypeChat                = "CHAT"
	MessageTypeApplicationAccepted = "APPLICATION_ACCEPTED"
	MessageTypeApplicationRejected = "APPLICATION_REJECTED"
	MessageTypeSystem              = "SYSTEM"
)

// MessageTypes lists every message type, in display order.
var MessageTypes = []string{
	MessageTypeChat,
	MessageTypeApplicationAccepted,
	MessageTypeApplicationRejected,
	MessageTypeSystem,
}

func IsMessageType(t string) bool {
	for _, mt := range MessageTypes {
		if mt == t {
			return true
		}
	}
	return false
}

type Message struct {
	ID               uuid.UUID  `json:"id"`
	SenderID         uuid.UUID  `json:"sender_id"`
	ReceiverID       uuid.UUID  `json:"receiver_id"`
	Body             string     `json:"message"`
	MessageType      string     `json:"message_type"`
	IsRead           bool       `json:"is_read"`
	JobApplicationID *uuid.UUID `json:"job_application_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type UnreadCount struct {
	Total  int            `json:"total"`
	ByType map[string]int `json:"by_type"`
}

// NewUnreadCount returns a zeroed count with every message type present.
func NewUnreadCount() UnreadCount {
	byType := make(map[string]int, len(MessageTypes))
	for _, t := range MessageTypes {
		byType[t] = 0
	}
	return UnreadCount{ByType: byType}
}

type Conversation struct {
	OtherUser     User     `json:"other_user"`
	LastMessage   *Message `json:"last_message"`
	UnreadCount   int      `json:"unread_count"`
	TotalMessages int      `json:"total_messages"`
}

type MessageStatistics struct {
	TotalSent     int `json:"total_sent"`
	TotalReceived int `json:"total_received"`
	UnreadCount   int `json:"unread_count"`
	Conversations int `json:"conversations"`
}

// JobApplication is the slice of a job application the message templates
// need.
type JobApplication struct {
	ID          uuid.UUID `json:"id"`
	ApplicantID uuid.UUID `json:"applicant_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	PostTitle   string    `json:"post_title"`
}

const (
	ApplicationPending  = "PENDING"
	ApplicationAccepted = "ACCEPTED"
	ApplicationRejected = "REJECTED"
)
