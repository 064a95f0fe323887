package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"

	"othello-arena/internal/events"
)

// RedisPublisher broadcasts arena events on the shared pub/sub channel.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher creates a publisher over an established Redis client.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Publish sends one event to every subscriber.
func (p *RedisPublisher) Publish(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.rdb.Publish(ctx, events.Channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe delivers arena events until the context is cancelled. Messages
// that fail to decode are logged and skipped.
func Subscribe(ctx context.Context, rdb *redis.Client) (<-chan events.Event, error) {
	pubsub := rdb.Subscribe(ctx, events.Channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", events.Channel, err)
	}

	out := make(chan events.Event)
	go func() {
		defer close(out)
		defer pubsub.Close()
		for {
			select {
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				var event events.Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					slog.WarnContext(ctx, "dropping undecodable event", "error", err)
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
