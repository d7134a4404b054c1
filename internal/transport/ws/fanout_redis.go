package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisFanout publishes messages to "<prefix>:room:<room>". Every instance
// pattern-subscribes to the prefix and delivers to its own registry, so
// members on other instances receive the message too.
type RedisFanout struct {
	client *redis.Client
	prefix string
	reg    *Registry
}

func NewRedisFanout(client *redis.Client, prefix string, reg *Registry) *RedisFanout {
	if prefix == "" {
		prefix = "creatorhub"
	}

	return &RedisFanout{client: client, prefix: prefix, reg: reg}
}

func (f *RedisFanout) channel(room string) string {
	return f.prefix + ":room:" + room
}

func (f *RedisFanout) Publish(ctx context.Context, msg NewMessagePayload) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return f.client.Publish(ctx, f.channel(msg.Room), data).Err()
}

// Start subscribes and returns once the subscription is confirmed. Delivery
// runs in the background until ctx is cancelled.
func (f *RedisFanout) Start(ctx context.Context) error {
	pubsub := f.client.PSubscribe(ctx, f.channel("*"))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("redis psubscribe: %w", err)
	}

	go f.processMessages(ctx, pubsub)

	return nil
}

func (f *RedisFanout) processMessages(ctx context.Context, pubsub *redis.PubSub) {
	defer pubsub.Close()

	ch := pubsub.Channel()
	prefix := f.channel("")

	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				return
			}

			var msg NewMessagePayload
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				slog.Warn("ws.fanout.redis decode failed", slog.String("channel", m.Channel), slog.Any("err", err))
				continue
			}
			if msg.Room == "" {
				msg.Room = strings.TrimPrefix(m.Channel, prefix)
			}

			f.reg.Broadcast(msg.Room, Envelope{Event: EventNewMessage, Data: msg})
		}
	}
}
