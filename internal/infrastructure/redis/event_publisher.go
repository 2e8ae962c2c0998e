package redis

import (
	"bidding-system/internal/domain"
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
)

type RedisEventPublisher struct {
	client  *redis.Client
	channel string
}

func NewEventPublisher(client *redis.Client, channel string) *RedisEventPublisher {
	return &RedisEventPublisher{client: client, channel: channel}
}

func (r *RedisEventPublisher) PublishBidEvent(ctx context.Context, event *domain.BidEvent) error {
	return r.client.Publish(ctx, r.channel, formatEventData(event)).Err()
}

// formatEventData renders "type:itemID:amount:createdAtMillis:timestampMillis:eventID:userID".
// The user id goes last so it may itself contain colons.
func formatEventData(event *domain.BidEvent) string {
	return fmt.Sprintf("%s:%s:%s:%d:%d:%s:%s",
		event.Type,
		event.ItemID,
		strconv.FormatFloat(event.Amount, 'f', -1, 64),
		event.CreatedAt.UnixMilli(),
		event.Timestamp.UnixMilli(),
		event.ID,
		event.UserID,
	)
}
