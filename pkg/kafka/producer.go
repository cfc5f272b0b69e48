// Package kafka wraps kafka-go with the event envelope the services publish.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	segmentio "github.com/segmentio/kafka-go"
)

// Event is the envelope every published message uses.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Source     string          `json:"source"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEvent builds an event envelope, marshalling payload into the body.
func NewEvent(eventType, source string, payload any) (Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal event payload: %w", err)
	}
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Source:     source,
		OccurredAt: time.Now().UTC(),
		Payload:    body,
	}, nil
}

// Producer publishes events to a single topic.
type Producer struct {
	writer *segmentio.Writer
	source string
}

// ProducerConfig configures the Kafka writer.
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	Source       string
	BatchTimeout time.Duration
}

// NewProducer creates a producer. Messages are keyed by the event key so all
// events for one entity stay ordered within a partition.
func NewProducer(cfg ProducerConfig) *Producer {
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 100 * time.Millisecond
	}
	return &Producer{
		writer: &segmentio.Writer{
			Addr:         segmentio.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &segmentio.Hash{},
			BatchTimeout: batchTimeout,
			RequiredAcks: segmentio.RequireOne,
		},
		source: cfg.Source,
	}
}

// Publish writes one event keyed by key.
func (p *Producer) Publish(ctx context.Context, key, eventType string, payload any) error {
	event, err := NewEvent(eventType, p.source, payload)
	if err != nil {
		return err
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, segmentio.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []segmentio.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}); err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}

	return nil
}

// Close flushes buffered messages and closes the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
