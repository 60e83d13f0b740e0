package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ezproduct/internal/logger"

	"github.com/segmentio/kafka-go"
)

const (
	TypeAppUninstalled   = "app.uninstalled"
	TypeShopRedact       = "shop.redact"
	TypeProductGenerated = "product.generated"
)

type Event struct {
	Type      string         `json:"type"`
	Shop      string         `json:"shop"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func New(eventType, shop string, data map[string]any) Event {
	return Event{Type: eventType, Shop: shop, Data: data, Timestamp: time.Now().UTC()}
}

// Handler processes one event.
type Handler interface {
	Process(ctx context.Context, event Event) error
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// KafkaPublisher writes events keyed by shop so one shop's events stay
// ordered within a partition.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		logger: logger.Component("events"),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(event.Shop), Value: value}); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	p.logger.Debug().Str("type", event.Type).Str("shop", event.Shop).Msg("event published")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// InlinePublisher hands events straight to a Handler. It is used when no
// brokers are configured.
type InlinePublisher struct {
	handler Handler
}

func NewInlinePublisher(handler Handler) *InlinePublisher {
	return &InlinePublisher{handler: handler}
}

func (p *InlinePublisher) Publish(ctx context.Context, event Event) error {
	return p.handler.Process(ctx, event)
}

func (p *InlinePublisher) Close() error { return nil }

// NewPublisher picks Kafka when brokers are given and inline delivery
// otherwise.
func NewPublisher(brokers []string, topic string, handler Handler, logger *logger.Logger) Publisher {
	if len(brokers) == 0 {
		return NewInlinePublisher(handler)
	}
	return NewKafkaPublisher(brokers, topic, logger)
}

// Decode parses a message value written by KafkaPublisher.
func Decode(value []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(value, &event); err != nil {
		return Event{}, fmt.Errorf("failed to parse event: %w", err)
	}
	return event, nil
}
