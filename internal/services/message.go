package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shatayaglobal/Manpower/internal/database"
	"github.com/shatayaglobal/Manpower/internal/models"
)

const messageColumns = `id, sender_id, receiver_id, body, message_type, is_read, job_application_id, created_at, updated_at`

const (
	defaultConversationLimit = 50
	maxConversationLimit     = 200
)

const (
	applicationAcceptedTemplate  = "Congratulations! Your application for '%s' has been accepted. The employer is now available to chat with you about next steps."
	applicationRejectedTemplate  = "Thank you for your interest in '%s'. Unfortunately, your application was not selected this time. Keep applying - the right opportunity is out there!"
	applicationSubmittedTemplate = "Hi! I've just applied for your '%s' position. I'm excited about this opportunity and happy to answer any questions you might have."
)

type MessageService struct {
	db *database.DB
}

func NewMessageService(db *database.DB) *MessageService {
	return &MessageService{db: db}
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var m models.Message
	err := row.Scan(
		&m.ID, &m.SenderID, &m.ReceiverID, &m.Body, &m.MessageType,
		&m.IsRead, &m.JobApplicationID, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &m, nil
}

// normalizeBody trims the body and enforces the length bounds.
func normalizeBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", invalid("message", "cannot be empty")
	}
	if utf8.RuneCountInString(body) > models.MaxMessageLength {
		return "", invalid("message", fmt.Sprintf("cannot exceed %d characters", models.MaxMessageLength))
	}
	return body, nil
}

// Send validates and stores a message. It does not notify anyone.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID uuid.UUID, body, messageType string, jobApplicationID *uuid.UUID) (*models.Message, error) {
	if receiverID == uuid.Nil {
		return nil, invalid("receiver_id", "is required")
	}
	if senderID == receiverID {
		return nil, invalid("receiver_id", "you cannot send a message to yourself")
	}

	body, err := normalizeBody(body)
	if err != nil {
		return nil, err
	}

	if messageType == "" {
		messageType = models.MessageTypeChat
	}
	if !models.IsMessageType(messageType) {
		return nil, invalid("message_type", "unknown message type")
	}

	var active bool
	err = s.db.Pool.QueryRow(ctx, `SELECT is_active FROM users WHERE id = $1`, receiverID).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && !active) {
		return nil, invalid("receiver_id", "receiver does not exist or is inactive")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load receiver: %w", err)
	}

	return s.insert(ctx, senderID, receiverID, body, messageType, jobApplicationID)
}

func (s *MessageService) insert(ctx context.Context, senderID, receiverID uuid.UUID, body, messageType string, jobApplicationID *uuid.UUID) (*models.Message, error) {
	msg, err := scanMessage(s.db.Pool.QueryRow(ctx, `
		INSERT INTO messages (sender_id, receiver_id, body, message_type, job_application_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+messageColumns,
		senderID, receiverID, body, messageType, jobApplicationID))
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return msg, nil
}

func (s *MessageService) GetByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	return scanMessage(s.db.Pool.QueryRow(ctx, `
		SELECT `+messageColumns+`
		FROM messages WHERE id = $1
	`, id))
}

// MarkRead marks every unread message from senderID to receiverID as read
// and returns how many changed.
func (s *MessageService) MarkRead(ctx context.Context, receiverID, senderID uuid.UUID) (int64, error) {
	result, err := s.db.Pool.Exec(ctx, `
		UPDATE messages SET is_read = TRUE, updated_at = NOW()
		WHERE receiver_id = $1 AND sender_id = $2 AND is_read = FALSE
	`, receiverID, senderID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return result.RowsAffected(), nil
}

func (s *MessageService) MarkAllRead(ctx context.Context, receiverID uuid.UUID) (int64, error) {
	result, err := s.db.Pool.Exec(ctx, `
		UPDATE messages SET is_read = TRUE, updated_at = NOW()
		WHERE receiver_id = $1 AND is_read = FALSE
	`, receiverID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return result.RowsAffected(), nil
}

// UnreadCount returns the user's unread total and a per-type breakdown that
// always lists every type.
func (s *MessageService) UnreadCount(ctx context.Context, userID uuid.UUID) (models.UnreadCount, error) {
	count := models.NewUnreadCount()

	rows, err := s.db.Pool.Query(ctx, `
		SELECT message_type, COUNT(*)
		FROM messages
		WHERE receiver_id = $1 AND is_read = FALSE
		GROUP BY message_type
	`, userID)
	if err != nil {
		return count, err
	}
	defer rows.Close()

	for rows.Next() {
		var messageType string
		var n int
		if err := rows.Scan(&messageType, &n); err != nil {
			return count, err
		}
		count.ByType[messageType] += n
		count.Total += n
	}
	return count, rows.Err()
}

// ListConversation returns the messages exchanged between two users, oldest
// first.
func (s *MessageService) ListConversation(ctx context.Context, userID, otherID uuid.UUID, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = defaultConversationLimit
	}
	if limit > maxConversationLimit {
		limit = maxConversationLimit
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+messageColumns+` FROM (
			SELECT `+messageColumns+`
			FROM messages
			WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
			ORDER BY created_at DESC
			LIMIT $3
		) recent
		ORDER BY created_at ASC
	`, userID, otherID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

// Conversations returns one entry per correspondent, most recent first.
func (s *MessageService) Conversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	rows, err := s.db.Pool.Query(ctx, `
		WITH pairs AS (
			SELECT CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS other_id, m.*
			FROM messages m
			WHERE sender_id = $1 OR receiver_id = $1
		),
		latest AS (
			SELECT DISTINCT ON (other_id) *
			FROM pairs
			ORDER BY other_id, created_at DESC
		),
		counts AS (
			SELECT other_id,
				COUNT(*) FILTER (WHERE receiver_id = $1 AND NOT is_read) AS unread,
				COUNT(*) AS total
			FROM pairs
			GROUP BY other_id
		)
		SELECT u.id, u.email, u.name, u.is_active, u.global_role, u.created_at, u.updated_at,
			l.id, l.sender_id, l.receiver_id, l.body, l.message_type, l.is_read, l.job_application_id,
			l.created_at, l.updated_at,
			c.unread, c.total
		FROM latest l
		JOIN counts c ON c.other_id = l.other_id
		JOIN users u ON u.id = l.other_id
		ORDER BY l.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conversations := []models.Conversation{}
	for rows.Next() {
		var c models.Conversation
		var m models.Message
		if err := rows.Scan(
			&c.OtherUser.ID, &c.OtherUser.Email, &c.OtherUser.Name, &c.OtherUser.IsActive,
			&c.OtherUser.GlobalRole, &c.OtherUser.CreatedAt, &c.OtherUser.UpdatedAt,
			&m.ID, &m.SenderID, &m.ReceiverID, &m.Body, &m.MessageType, &m.IsRead, &m.JobApplicationID,
			&m.CreatedAt, &m.UpdatedAt,
			&c.UnreadCount, &c.TotalMessages,
		); err != nil {
			return nil, err
		}
		c.LastMessage = &m
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

func (s *MessageService) Statistics(ctx context.Context, userID uuid.UUID) (*models.MessageStatistics, error) {
	var st models.MessageStatistics
	err := s.db.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE sender_id = $1),
			COUNT(*) FILTER (WHERE receiver_id = $1),
			COUNT(*) FILTER (WHERE receiver_id = $1 AND NOT is_read),
			COUNT(DISTINCT CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END)
		FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
	`, userID).Scan(&st.TotalSent, &st.TotalReceived, &st.UnreadCount, &st.Conversations)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Update edits the body of a message. Only the sender may edit, and only
// while the receiver has not read it.
func (s *MessageService) Update(ctx context.Context, actorID, id uuid.UUID, body string) (*models.Message, error) {
	body, err := normalizeBody(body)
	if err != nil {
		return nil, err
	}

	msg, err := scanMessage(s.db.Pool.QueryRow(ctx, `
		UPDATE messages SET body = $1, updated_at = NOW()
		WHERE id = $2 AND sender_id = $3 AND is_read = FALSE
		RETURNING `+messageColumns,
		body, id, actorID))
	if err == nil {
		return msg, nil
	}
	if !errors.Is(err, ErrMessageNotFound) {
		return nil, fmt.Errorf("failed to update message: %w", err)
	}
	return nil, s.classifyMiss(ctx, actorID, id, true)
}

// Delete removes a message. Only the sender may delete it.
func (s *MessageService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `
		DELETE FROM messages WHERE id = $1 AND sender_id = $2
	`, id, actorID)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if result.RowsAffected() == 0 {
		return s.classifyMiss(ctx, actorID, id, false)
	}
	return nil
}

// classifyMiss explains why a guarded write on a message matched nothing.
func (s *MessageService) classifyMiss(ctx context.Context, actorID, id uuid.UUID, editing bool) error {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	switch {
	case current.SenderID == actorID && editing && current.IsRead:
		return ErrMessageNotEditable
	case current.SenderID == actorID:
		return ErrInvalidStatusTransition
	case current.ReceiverID == actorID:
		return ErrForbidden
	default:
		return ErrMessageNotFound
	}
}

// CreateApplicationStatusMessage notifies an applicant that their job
// application was accepted or rejected. Other transitions produce no message
// and return nil.
func (s *MessageService) CreateApplicationStatusMessage(ctx context.Context, app models.JobApplication, oldStatus, newStatus string) (*models.Message, error) {
	if oldStatus == newStatus {
		return nil, nil
	}

	var body, messageType string
	switch newStatus {
	case models.ApplicationAccepted:
		body = fmt.Sprintf(applicationAcceptedTemplate, app.PostTitle)
		messageType = models.MessageTypeApplicationAccepted
	case models.ApplicationRejected:
		body = fmt.Sprintf(applicationRejectedTemplate, app.PostTitle)
		messageType = models.MessageTypeApplicationRejected
	default:
		return nil, nil
	}

	return s.insert(ctx, app.OwnerID, app.ApplicantID, body, messageType, &app.ID)
}

// CreateApplicationSubmittedMessage opens a chat from the applicant to the
// post owner.
func (s *MessageService) CreateApplicationSubmittedMessage(ctx context.Context, app models.JobApplication) (*models.Message, error) {
	body := fmt.Sprintf(applicationSubmittedTemplate, app.PostTitle)
	return s.insert(ctx, app.ApplicantID, app.OwnerID, body, models.MessageTypeChat, &app.ID)
}
