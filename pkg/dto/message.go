package dto

import "github.com/google/uuid"

type SendMessageRequest struct {
	ReceiverID       uuid.UUID  `json:"receiver_id"`
	Message          string     `json:"message"`
	MessageType      string     `json:"message_type,omitempty"`
	JobApplicationID *uuid.UUID `json:"job_application_id,omitempty"`
}

type UpdateMessageRequest struct {
	Message string `json:"message"`
}

type MarkReadRequest struct {
	OtherUserID uuid.UUID `json:"other_user_id"`
}

type MarkReadResponse struct {
	MarkedCount int64 `json:"marked_count"`
}
