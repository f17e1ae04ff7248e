package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/shatayaglobal/Manpower/internal/hub"
	"github.com/shatayaglobal/Manpower/internal/models"
	"github.com/shatayaglobal/Manpower/internal/services"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockBusinessService mocks the BusinessService
type MockBusinessService struct {
	mock.Mock
}

func (m *MockBusinessService) UpdateLocation(ctx context.Context, actorID, businessID uuid.UUID, settings services.LocationSettings) (*models.Business, error) {
	args := m.Called(ctx, actorID, businessID, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Business), args.Error(1)
}

// MockStaffService mocks the StaffService
type MockStaffService struct {
	mock.Mock
}

func (m *MockStaffService) Create(ctx context.Context, actorID uuid.UUID, in services.CreateStaffInput) (*models.StaffMember, *models.StaffInvitation, error) {
	args := m.Called(ctx, actorID, in)
	var staff *models.StaffMember
	if args.Get(0) != nil {
		staff = args.Get(0).(*models.StaffMember)
	}
	var invitation *models.StaffInvitation
	if args.Get(1) != nil {
		invitation = args.Get(1).(*models.StaffInvitation)
	}
	return staff, invitation, args.Error(2)
}

func (m *MockStaffService) Get(ctx context.Context, actorID, id uuid.UUID) (*models.StaffMember, error) {
	args := m.Called(ctx, actorID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StaffMember), args.Error(1)
}

func (m *MockStaffService) ListForBusiness(ctx context.Context, actorID, businessID uuid.UUID) ([]models.StaffMember, error) {
	args := m.Called(ctx, actorID, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StaffMember), args.Error(1)
}

// MockInvitationService mocks the InvitationService
type MockInvitationService struct {
	mock.Mock
}

func (m *MockInvitationService) List(ctx context.Context, workerID uuid.UUID, status string) ([]models.StaffInvitation, error) {
	args := m.Called(ctx, workerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StaffInvitation), args.Error(1)
}

func (m *MockInvitationService) PendingCount(ctx context.Context, workerID uuid.UUID) (int, error) {
	args := m.Called(ctx, workerID)
	return args.Int(0), args.Error(1)
}

func (m *MockInvitationService) Accept(ctx context.Context, invitationID, workerID uuid.UUID) (*models.StaffInvitation, error) {
	args := m.Called(ctx, invitationID, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StaffInvitation), args.Error(1)
}

func (m *MockInvitationService) Reject(ctx context.Context, invitationID, workerID uuid.UUID) (*models.StaffInvitation, error) {
	args := m.Called(ctx, invitationID, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StaffInvitation), args.Error(1)
}

// MockHoursCardService mocks the HoursCardService
type MockHoursCardService struct {
	mock.Mock
}

func (m *MockHoursCardService) card(args mock.Arguments) (*models.HoursCard, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HoursCard), args.Error(1)
}

func (m *MockHoursCardService) cards(args mock.Arguments) ([]models.HoursCard, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HoursCard), args.Error(1)
}

func (m *MockHoursCardService) ClockIn(ctx context.Context, actorID uuid.UUID, in services.ClockInInput) (*models.HoursCard, error) {
	return m.card(m.Called(ctx, actorID, in))
}

func (m *MockHoursCardService) ClockOut(ctx context.Context, actorID, cardID uuid.UUID, notes *string) (*models.HoursCard, error) {
	return m.card(m.Called(ctx, actorID, cardID, notes))
}

func (m *MockHoursCardService) Sign(ctx context.Context, actorID, cardID uuid.UUID, signature string) (*models.HoursCard, error) {
	return m.card(m.Called(ctx, actorID, cardID, signature))
}

func (m *MockHoursCardService) Review(ctx context.Context, actorID, cardID uuid.UUID, status, reason string) (*models.HoursCard, error) {
	return m.card(m.Called(ctx, actorID, cardID, status, reason))
}

func (m *MockHoursCardService) AdminOverride(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID, status, reason string) (int64, error) {
	args := m.Called(ctx, actorID, ids, status, reason)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockHoursCardService) Update(ctx context.Context, actorID, cardID uuid.UUID, in services.UpdateHoursCardInput) (*models.HoursCard, error) {
	return m.card(m.Called(ctx, actorID, cardID, in))
}

func (m *MockHoursCardService) Get(ctx context.Context, actorID, cardID uuid.UUID) (*models.HoursCard, error) {
	return m.card(m.Called(ctx, actorID, cardID))
}

func (m *MockHoursCardService) ListMine(ctx context.Context, workerID uuid.UUID, from, to *time.Time) ([]models.HoursCard, error) {
	return m.cards(m.Called(ctx, workerID, from, to))
}

func (m *MockHoursCardService) ListForBusiness(ctx context.Context, actorID uuid.UUID, f services.HoursCardFilter) ([]models.HoursCard, error) {
	return m.cards(m.Called(ctx, actorID, f))
}

// MockMessageService mocks the MessageService
type MockMessageService struct {
	mock.Mock
}

func (m *MockMessageService) Send(ctx context.Context, senderID, receiverID uuid.UUID, body, messageType string, jobApplicationID *uuid.UUID) (*models.Message, error) {
	args := m.Called(ctx, senderID, receiverID, body, messageType, jobApplicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageService) MarkRead(ctx context.Context, receiverID, senderID uuid.UUID) (int64, error) {
	args := m.Called(ctx, receiverID, senderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageService) MarkAllRead(ctx context.Context, receiverID uuid.UUID) (int64, error) {
	args := m.Called(ctx, receiverID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageService) UnreadCount(ctx context.Context, userID uuid.UUID) (models.UnreadCount, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.UnreadCount), args.Error(1)
}

func (m *MockMessageService) ListConversation(ctx context.Context, userID, otherID uuid.UUID, limit int) ([]models.Message, error) {
	args := m.Called(ctx, userID, otherID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockMessageService) Conversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Conversation), args.Error(1)
}

func (m *MockMessageService) Statistics(ctx context.Context, userID uuid.UUID) (*models.MessageStatistics, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MessageStatistics), args.Error(1)
}

func (m *MockMessageService) Update(ctx context.Context, actorID, id uuid.UUID, body string) (*models.Message, error) {
	args := m.Called(ctx, actorID, id, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	args := m.Called(ctx, actorID, id)
	return args.Error(0)
}

// MockEmailService mocks the EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendStaffInvitation(to, businessName, jobTitle, invitationsURL string) error {
	args := m.Called(to, businessName, jobTitle, invitationsURL)
	return args.Error(0)
}

// RecordingHub records every event published through it instead of
// delivering. Connection methods behave like a real hub with no peers.
type RecordingHub struct {
	mu        sync.Mutex
	Published []PublishedEvent
	Direct    []any
}

// PublishedEvent is one PublishToUser call.
type PublishedEvent struct {
	UserID uuid.UUID
	Event  any
}

func NewRecordingHub() *RecordingHub {
	return &RecordingHub{}
}

func (h *RecordingHub) NewClient(userID uuid.UUID) *hub.Client {
	return &hub.Client{ID: uuid.New().String(), UserID: userID, Send: make(chan []byte, hub.DefaultClientBuffer)}
}

func (h *RecordingHub) Join(client *hub.Client) {}

func (h *RecordingHub) Leave(client *hub.Client) {}

func (h *RecordingHub) PublishToUser(ctx context.Context, userID uuid.UUID, event any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Published = append(h.Published, PublishedEvent{UserID: userID, Event: event})
}

func (h *RecordingHub) SendToClient(client *hub.Client, event any) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Direct = append(h.Direct, event)
	return true
}

// Events returns a copy of everything published so far.
func (h *RecordingHub) Events() []PublishedEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]PublishedEvent(nil), h.Published...)
}
