package redis

import (
	"bidding-system/internal/domain"
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

type RedisHistoryReader struct {
	client *redis.Client
}

func NewHistoryReader(client *redis.Client) *RedisHistoryReader {
	return &RedisHistoryReader{client: client}
}

// GetHistory returns up to count records, most recent first, skipping the
// offset most recent ones. A single LRANGE keeps each page a point-in-time slice.
func (r *RedisHistoryReader) GetHistory(ctx context.Context, itemID string, offset, count int) ([]domain.BidRecord, error) {
	if offset < 0 || count < 0 {
		return nil, fmt.Errorf("%w: offset %d count %d", domain.ErrInvalidPage, offset, count)
	}
	if count == 0 {
		return []domain.BidRecord{}, nil
	}

	start := int64(-offset - count)
	end := int64(-1 - offset)

	stored, err := r.client.LRange(ctx, bidHistoryKey(itemID), start, end).Result()
	if err != nil {
		return nil, fmt.Errorf("read history of item %s: %w", itemID, err)
	}

	records := make([]domain.BidRecord, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		record, err := DeserializeHistory(stored[i])
		if err != nil {
			return nil, fmt.Errorf("history of item %s: %w", itemID, err)
		}
		records = append(records, record)
	}

	return records, nil
}
