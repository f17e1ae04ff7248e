package hub

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const relayPrefix = "notify:"

// RedisRelay fans hub events out to every instance through Redis pub/sub.
type RedisRelay struct {
	rdb *redis.Client
	log *zap.Logger
}

// NewRedisClient connects to the Redis instance at url and pings it.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

func NewRedisRelay(rdb *redis.Client, log *zap.Logger) *RedisRelay {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisRelay{rdb: rdb, log: log}
}

func (r *RedisRelay) Publish(ctx context.Context, channel string, payload []byte) error {
	return r.rdb.Publish(ctx, relayPrefix+channel, payload).Err()
}

// Run subscribes to every user channel and delivers into h until ctx is
// done. The subscription is confirmed before Run starts consuming, so an
// error is returned when Redis refuses it.
func (r *RedisRelay) Run(ctx context.Context, h *Hub) error {
	sub := r.rdb.PSubscribe(ctx, relayPrefix+"user_*")
	defer func() { _ = sub.Close() }()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	r.log.Info("relay subscribed", zap.String("pattern", relayPrefix+"user_*"))

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			h.Deliver(strings.TrimPrefix(msg.Channel, relayPrefix), []byte(msg.Payload))
		}
	}
}
