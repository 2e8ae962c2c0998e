package redis

import (
	"bidding-system/internal/domain"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

type RedisItemStore struct {
	client *redis.Client
}

func NewItemStore(client *redis.Client) *RedisItemStore {
	return &RedisItemStore{client: client}
}

// CreateItem writes the item hash and its price index entry in one transaction.
func (r *RedisItemStore) CreateItem(ctx context.Context, item *domain.Item) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, itemsKey(item.ID),
			"name", item.Name,
			"price", formatAmount(item.Price),
			"bids", item.Bids,
			"endingAt", item.EndingAt.UnixMilli(),
			"highestBidUserId", item.HighestBidUserID,
			"createdAt", item.CreatedAt.UnixMilli(),
		)
		pipe.ZAdd(ctx, itemsByPriceKey, &redis.Z{Score: item.Price, Member: item.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("create item %s: %w", item.ID, err)
	}
	return nil
}

func (r *RedisItemStore) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	fields, err := r.client.HGetAll(ctx, itemsKey(itemID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", itemID, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	return deserializeItem(itemID, fields)
}

func deserializeItem(itemID string, fields map[string]string) (*domain.Item, error) {
	item := &domain.Item{
		ID:               itemID,
		Name:             fields["name"],
		HighestBidUserID: fields["highestBidUserId"],
	}

	var err error
	if item.Price, err = parseFloatField(fields, "price"); err != nil {
		return nil, fmt.Errorf("item %s: %w", itemID, err)
	}
	if item.Bids, err = parseIntField(fields, "bids"); err != nil {
		return nil, fmt.Errorf("item %s: %w", itemID, err)
	}
	endingAt, err := parseIntField(fields, "endingAt")
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", itemID, err)
	}
	item.EndingAt = time.UnixMilli(endingAt)
	createdAt, err := parseIntField(fields, "createdAt")
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", itemID, err)
	}
	item.CreatedAt = time.UnixMilli(createdAt)

	return item, nil
}

func parseFloatField(fields map[string]string, name string) (float64, error) {
	raw, ok := fields[name]
	if !ok || raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return v, nil
}

func parseIntField(fields map[string]string, name string) (int64, error) {
	raw, ok := fields[name]
	if !ok || raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return v, nil
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
