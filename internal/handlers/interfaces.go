package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shatayaglobal/Manpower/internal/hub"
	"github.com/shatayaglobal/Manpower/internal/models"
	"github.com/shatayaglobal/Manpower/internal/services"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error)
}

// BusinessServiceInterface defines the methods used by handlers from BusinessService
type BusinessServiceInterface interface {
	UpdateLocation(ctx context.Context, actorID, businessID uuid.UUID, settings services.LocationSettings) (*models.Business, error)
}

// StaffServiceInterface defines the methods used by handlers from StaffService
type StaffServiceInterface interface {
	Create(ctx context.Context, actorID uuid.UUID, in services.CreateStaffInput) (*models.StaffMember, *models.StaffInvitation, error)
	Get(ctx context.Context, actorID, id uuid.UUID) (*models.StaffMember, error)
	ListForBusiness(ctx context.Context, actorID, businessID uuid.UUID) ([]models.StaffMember, error)
}

// InvitationServiceInterface defines the methods used by handlers from InvitationService
type InvitationServiceInterface interface {
	List(ctx context.Context, workerID uuid.UUID, status string) ([]models.StaffInvitation, error)
	PendingCount(ctx context.Context, workerID uuid.UUID) (int, error)
	Accept(ctx context.Context, invitationID, workerID uuid.UUID) (*models.StaffInvitation, error)
	Reject(ctx context.Context, invitationID, workerID uuid.UUID) (*models.StaffInvitation, error)
}

// HoursCardServiceInterface defines the methods used by handlers from HoursCardService
type HoursCardServiceInterface interface {
	ClockIn(ctx context.Context, actorID uuid.UUID, in services.ClockInInput) (*models.HoursCard, error)
	ClockOut(ctx context.Context, actorID, cardID uuid.UUID, notes *string) (*models.HoursCard, error)
	Sign(ctx context.Context, actorID, cardID uuid.UUID, signature string) (*models.HoursCard, error)
	Review(ctx context.Context, actorID, cardID uuid.UUID, status, reason string) (*models.HoursCard, error)
	AdminOverride(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID, status, reason string) (int64, error)
	Update(ctx context.Context, actorID, cardID uuid.UUID, in services.UpdateHoursCardInput) (*models.HoursCard, error)
	Get(ctx context.Context, actorID, cardID uuid.UUID) (*models.HoursCard, error)
	ListMine(ctx context.Context, workerID uuid.UUID, from, to *time.Time) ([]models.HoursCard, error)
	ListForBusiness(ctx context.Context, actorID uuid.UUID, f services.HoursCardFilter) ([]models.HoursCard, error)
}

// MessageServiceInterface defines the methods used by handlers from MessageService
type MessageServiceInterface interface {
	Send(ctx context.Context, senderID, receiverID uuid.UUID, body, messageType string, jobApplicationID *uuid.UUID) (*models.Message, error)
	MarkRead(ctx context.Context, receiverID, senderID uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context, receiverID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (models.UnreadCount, error)
	ListConversation(ctx context.Context, userID, otherID uuid.UUID, limit int) ([]models.Message, error)
	Conversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error)
	Statistics(ctx context.Context, userID uuid.UUID) (*models.MessageStatistics, error)
	Update(ctx context.Context, actorID, id uuid.UUID, body string) (*models.Message, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

// EmailServiceInterface defines the methods used by handlers from EmailService
type EmailServiceInterface interface {
	SendStaffInvitation(to, businessName, jobTitle, invitationsURL string) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	ValidateAccessToken(token string) (*services.Claims, error)
}

// HubInterface defines the methods used by handlers from the Hub
type HubInterface interface {
	NewClient(userID uuid.UUID) *hub.Client
	Join(client *hub.Client)
	Leave(client *hub.Client)
	PublishToUser(ctx context.Context, userID uuid.UUID, event any)
	SendToClient(client *hub.Client, event any) bool
}
