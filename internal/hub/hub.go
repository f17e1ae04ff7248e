package hub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultClientBuffer = 256

// Relay carries published events between server instances. Every instance
// delivers what it receives from the relay through Deliver.
type Relay interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

type Client struct {
	ID     string
	UserID uuid.UUID
	Send   chan []byte

	closed bool
}

type Hub struct {
	channels   map[string]map[*Client]struct{}
	relay      Relay
	bufferSize int
	log        *zap.Logger
	mu         sync.RWMutex
}

func NewHub(log *zap.Logger, bufferSize int) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	if bufferSize <= 0 {
		bufferSize = DefaultClientBuffer
	}
	return &Hub{
		channels:   make(map[string]map[*Client]struct{}),
		bufferSize: bufferSize,
		log:        log,
	}
}

// SetRelay routes publishes through r. Passing nil restores local-only
// delivery.
func (h *Hub) SetRelay(r Relay) {
	h.mu.Lock()
	h.relay = r
	h.mu.Unlock()
}

// ChannelName is the per-user channel every connection of that user joins.
func ChannelName(userID uuid.UUID) string {
	return "user_" + userID.String()
}

// NewClient allocates a client with its own bounded outbound queue. The
// client receives nothing until it joins.
func (h *Hub) NewClient(userID uuid.UUID) *Client {
	return &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Send:   make(chan []byte, h.bufferSize),
	}
}

func (h *Hub) Join(client *Client) {
	channel := ChannelName(client.UserID)

	h.mu.Lock()
	members, ok := h.channels[channel]
	if !ok {
		members = make(map[*Client]struct{})
		h.channels[channel] = members
	}
	members[client] = struct{}{}
	h.mu.Unlock()

	h.log.Debug("client joined", zap.String("channel", channel), zap.String("client_id", client.ID))
}

// Leave removes the client from its channel and closes its queue. Calling it
// more than once is a no-op.
func (h *Hub) Leave(client *Client) {
	channel := ChannelName(client.UserID)

	h.mu.Lock()
	if members, ok := h.channels[channel]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.channels, channel)
		}
	}
	if client.closed {
		h.mu.Unlock()
		return
	}
	client.closed = true
	close(client.Send)
	h.mu.Unlock()

	h.log.Debug("client left", zap.String("channel", channel), zap.String("client_id", client.ID))
}

func (h *Hub) ConnectionCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[ChannelName(userID)])
}

// PublishToUser delivers event to every connection of userID. It never
// blocks on a slow consumer.
func (h *Hub) PublishToUser(ctx context.Context, userID uuid.UUID, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to encode event", zap.Error(err))
		return
	}

	channel := ChannelName(userID)

	h.mu.RLock()
	relay := h.relay
	h.mu.RUnlock()

	if relay != nil {
		err := relay.Publish(ctx, channel, data)
		if err == nil {
			return
		}
		h.log.Warn("relay publish failed, delivering locally", zap.String("channel", channel), zap.Error(err))
	}

	h.Deliver(channel, data)
}

// Deliver enqueues an encoded event on every local member of channel.
func (h *Hub) Deliver(channel string, data []byte) {
	// The write lock keeps concurrent publishes in the same order across
	// all members of the channel.
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.channels[channel] {
		select {
		case client.Send <- data:
		default:
			h.log.Warn("client queue full, dropping event",
				zap.String("channel", channel),
				zap.String("client_id", client.ID),
			)
		}
	}
}

// SendToClient enqueues event on a single connection. It reports false when
// the event was dropped or the client already left.
func (h *Hub) SendToClient(client *Client, event any) bool {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to encode event", zap.Error(err))
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if client.closed {
		return false
	}
	select {
	case client.Send <- data:
		return true
	default:
		h.log.Warn("client queue full, dropping event", zap.String("client_id", client.ID))
		return false
	}
}
