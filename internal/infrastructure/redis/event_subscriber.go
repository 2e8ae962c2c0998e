package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bidding-system/internal/domain"
	"bidding-system/pkg/logger"

	"github.com/go-redis/redis/v8"
)

type RedisEventSubscriber struct {
	client  *redis.Client
	channel string
	log     logger.Logger
}

func NewEventSubscriber(client *redis.Client, channel string, log logger.Logger) *RedisEventSubscriber {
	return &RedisEventSubscriber{
		client:  client,
		channel: channel,
		log:     log,
	}
}

func (r *RedisEventSubscriber) SubscribeToBidEvents(ctx context.Context, handler domain.EventHandler) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	// Wait for the subscription to be confirmed before consuming.
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", r.channel, err)
	}

	ch := pubsub.Channel()

	r.log.Info("Subscribed to bid events", "channel", r.channel)

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			event, err := parseEventData(msg.Payload)
			if err != nil {
				r.log.Error("Failed to parse event", "payload", msg.Payload, "error", err)
				continue
			}

			if err := handler(event); err != nil {
				r.log.Error("Failed to handle event", "event_id", event.ID, "item_id", event.ItemID, "error", err)
			}

		case <-ctx.Done():
			r.log.Info("Event subscriber stopped")
			return ctx.Err()
		}
	}
}

func parseEventData(payload string) (*domain.BidEvent, error) {
	parts := strings.SplitN(payload, ":", 7)
	if len(parts) < 7 {
		return nil, fmt.Errorf("invalid event format: %s", payload)
	}

	amount, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return nil, err
	}

	createdAt, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return nil, err
	}

	timestamp, err := strconv.ParseInt(parts[4], 10, 64)
	if err != nil {
		return nil, err
	}

	return &domain.BidEvent{
		Type:      domain.BidEventType(parts[0]),
		ItemID:    parts[1],
		Amount:    amount,
		CreatedAt: time.UnixMilli(createdAt),
		Timestamp: time.UnixMilli(timestamp),
		ID:        parts[5],
		UserID:    parts[6],
	}, nil
}
