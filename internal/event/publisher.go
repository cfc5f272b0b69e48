// Package event publishes domain events without blocking request handling.
package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/utafrali/MarketplaceGo/pkg/kafka"
	"github.com/utafrali/MarketplaceGo/pkg/logger"
)

// Event types published by the services.
const (
	TypeUserRegistered  = "user.registered"
	TypeUserUpdated     = "user.updated"
	TypeUserDeleted     = "user.deleted"
	TypeItemCreated     = "item.created"
	TypeItemUpdated     = "item.updated"
	TypeItemDeleted     = "item.deleted"
	TypePasswordChanged = "user.password_changed"
)

// Publisher emits domain events.
type Publisher interface {
	Publish(ctx context.Context, key, eventType string, payload any)
}

// KafkaPublisher publishes through a Kafka producer. Publish failures are
// logged and swallowed: events are informational and must never fail the
// request that produced them.
type KafkaPublisher struct {
	producer *kafka.Producer
	timeout  time.Duration
}

// NewKafkaPublisher wraps producer.
func NewKafkaPublisher(producer *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, timeout: 5 * time.Second}
}

// Publish writes the event, detached from the request context so a finished
// request does not cancel the write.
func (p *KafkaPublisher) Publish(ctx context.Context, key, eventType string, payload any) {
	log := logger.FromContext(ctx)

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.producer.Publish(publishCtx, key, eventType, payload); err != nil {
		log.Warn("event publish failed",
			slog.String("event_type", eventType),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// NopPublisher drops every event. Used when Kafka is disabled.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(context.Context, string, string, any) {}
