package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"bidding-system/internal/domain"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaEventPublisher writes bid events as JSON keyed by item id, so one item's
// events stay in one partition and keep their order.
type KafkaEventPublisher struct {
	w messageWriter
}

func NewEventPublisher(brokers []string, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func (p *KafkaEventPublisher) PublishBidEvent(ctx context.Context, event *domain.BidEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode bid event %s: %w", event.ID, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.ItemID),
		Value: value,
		Time:  event.Timestamp,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish bid event %s: %w", event.ID, err)
	}
	return nil
}

func (p *KafkaEventPublisher) Close() error {
	return p.w.Close()
}
