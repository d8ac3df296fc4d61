// Package events carries cross-service notifications over Redis pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ChannelFeed   = "feed_events"
	ChannelReview = "review_events"
)

const (
	TypeReplyAdded     = "reply_added"
	TypeReviewReceived = "review_received"
)

type Event struct {
	Type        string            `json:"type"`
	RecipientID string            `json:"recipient_id"`
	ActorID     string            `json:"actor_id"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Publisher is implemented by RedisPublisher and by test recorders.
type Publisher interface {
	Publish(ctx context.Context, channel string, ev Event) error
}

type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, ev Event) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.rdb.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}
	return nil
}

// Handler consumes one decoded event.
type Handler func(ctx context.Context, ev Event) error

// Subscribe blocks until ctx is done, passing every event on channels to h.
// Undecodable payloads and handler errors are logged and skipped.
func Subscribe(ctx context.Context, rdb *redis.Client, h Handler, channels ...string) error {
	pubsub := rdb.Subscribe(ctx, channels...)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %v: %w", channels, err)
	}
	log.Printf("[EVENTS] Subscribed to %v", channels)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			Dispatch(ctx, msg.Payload, h)
		}
	}
}

// Dispatch decodes payload and hands it to h.
func Dispatch(ctx context.Context, payload string, h Handler) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		log.Printf("[EVENTS] Invalid payload: %v", err)
		return
	}
	if err := h(ctx, ev); err != nil {
		log.Printf("[EVENTS] Handler failed for %s: %v", ev.Type, err)
	}
}

// LogPublisher drops events after logging them. Used when Redis is absent.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, channel string, ev Event) error {
	log.Printf("[EVENTS] %s -> %s (%s)", channel, ev.RecipientID, ev.Type)
	return nil
}
