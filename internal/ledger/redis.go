package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// changeChannel carries userKeys whose collections changed. Every instance
// publishes its own mutations and wakes local subscribers for whatever it
// receives, so a change anywhere reaches subscribers everywhere.
const changeChannel = "splitmate:friends:changed"

// RedisBridge connects the local hub to other server instances through
// Redis pub/sub. It implements Publisher.
type RedisBridge struct {
	client *redis.Client
	hub    *Hub
	logger *slog.Logger
}

// NewRedisBridge connects to Redis and verifies the connection.
func NewRedisBridge(addr, password string, db int, hub *Hub) (*RedisBridge, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisBridge{
		client: client,
		hub:    hub,
		logger: slog.Default(),
	}, nil
}

// Publish announces a changed userKey to all instances.
func (b *RedisBridge) Publish(ctx context.Context, userKey string) error {
	if err := b.client.Publish(ctx, changeChannel, userKey).Err(); err != nil {
		return fmt.Errorf("failed to publish change: %w", err)
	}
	return nil
}

// Run consumes change announcements and wakes local subscribers until ctx
// is cancelled. Waking for our own publishes is harmless: the hub
// coalesces redundant wakes.
func (b *RedisBridge) Run(ctx context.Context) {
	pubsub := b.client.Subscribe(ctx, changeChannel)
	defer pubsub.Close()

	b.logger.Info("Redis change feed attached", "channel", changeChannel)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			b.hub.Notify(msg.Payload)
		}
	}
}

// Close releases the Redis connection.
func (b *RedisBridge) Close() error {
	return b.client.Close()
}
