package realtime

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"studentadmin/internal/metrics"
)

// RedisBridge publishes events through a redis channel so that every server
// instance, including the publishing one, fans them out to its own local
// clients. Selected with NOTIFIER_BACKEND=redis.
type RedisBridge struct {
	client  *redis.Client
	hub     *Hub
	channel string
	log     *zap.Logger
}

func NewRedisBridge(client *redis.Client, hub *Hub, channel string, log *zap.Logger) *RedisBridge {
	if channel == "" {
		channel = "studentadmin:events"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisBridge{client: client, hub: hub, channel: channel, log: log}
}

// Publish sends the event to the redis channel. Local delivery happens when
// the subscription loop receives it back.
func (b *RedisBridge) Publish(event string, payload any) {
	data, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		b.log.Error("marshal event failed", zap.String("event", event), zap.Error(err))
		return
	}
	metrics.EventsPublished.WithLabelValues(event).Inc()
	if err := b.client.Publish(context.Background(), b.channel, data).Err(); err != nil {
		b.log.Error("redis publish failed", zap.String("event", event), zap.Error(err))
		// fall back to local-only delivery so this instance's clients
		// still receive the event
		b.hub.Broadcast(data)
	}
}

// Run subscribes to the channel and re-broadcasts received events to the
// local hub until the context is canceled.
func (b *RedisBridge) Run(ctx context.Context) {
	sub := b.client.Subscribe(ctx, b.channel)
	defer func() { _ = sub.Close() }()
	ch := sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			b.hub.Broadcast([]byte(msg.Payload))
		case <-ctx.Done():
			return
		}
	}
}
