package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bidding-system/internal/domain"
	"bidding-system/pkg/logger"

	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaEventSubscriber reads bid events as a consumer group member. An offset
// is committed only after the handler succeeded.
type KafkaEventSubscriber struct {
	r   messageReader
	log logger.Logger
}

func NewEventSubscriber(brokers []string, groupID, topic string, log logger.Logger) *KafkaEventSubscriber {
	return &KafkaEventSubscriber{
		r: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			GroupID:  groupID,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		log: log,
	}
}

// SubscribeToBidEvents blocks until ctx is done or the reader fails.
func (s *KafkaEventSubscriber) SubscribeToBidEvents(ctx context.Context, handler domain.EventHandler) error {
	defer s.r.Close()

	for {
		msg, err := s.r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("fetch bid event: %w", err)
		}

		var event domain.BidEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			// Poison message, skip it.
			s.log.Error("Failed to decode bid event", "offset", msg.Offset, "partition", msg.Partition, "error", err)
			if err := s.r.CommitMessages(ctx, msg); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("commit bid event offset: %w", err)
			}
			continue
		}

		if err := handler(&event); err != nil {
			s.log.Error("Failed to handle bid event", "event_id", event.ID, "error", err)
			continue
		}

		if err := s.r.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("commit bid event offset: %w", err)
		}
	}
}
