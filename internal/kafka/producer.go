package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"ms-concerthall/internal/events/serializer"
	"ms-concerthall/internal/logger"
)

const (
	EventCreated = "event.created"
	EventUpdated = "event.updated"
	EventDeleted = "event.deleted"
)

// Notification describes a committed change to an event.
type Notification struct {
	Type       string                   `json:"type"`
	EventID    int64                    `json:"event_id"`
	Event      serializer.EventResponse `json:"event"`
	OccurredAt time.Time                `json:"occurred_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	Writer messageWriter
	Topic  string
	Logger *logger.Logger
}

// NewProducer returns an async producer: Publish only enqueues, and delivery
// failures are reported through the logger once the writer gives up.
func NewProducer(brokers []string, topic string, log *logger.Logger) *Producer {
	p := &Producer{Topic: topic, Logger: log}
	p.Writer = &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  true,
		MaxAttempts:            3,
		WriteTimeout:           5 * time.Second,
		Completion:             p.completion,
	}
	return p
}

func (p *Producer) completion(messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	for _, msg := range messages {
		p.Logger.Error("KAFKA", fmt.Sprintf("Failed to deliver notification for event %s to %s: %v", msg.Key, p.Topic, err))
	}
}

// Publish writes n keyed by event id so all changes to one event land on the
// same partition in order.
func (p *Producer) Publish(ctx context.Context, n Notification) error {
	value, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	err = p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(n.EventID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(n.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s for event %d: %w", n.Type, n.EventID, err)
	}

	p.Logger.LogKafka("PUBLISH", p.Topic, fmt.Sprintf("%s %d", n.Type, n.EventID))
	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

// NopPublisher is used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Notification) error { return nil }

func (NopPublisher) Close() error { return nil }
