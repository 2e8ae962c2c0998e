package redis

import (
	"bidding-system/internal/domain"
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// repairPriceScript overwrites one index entry, only for the current lease holder.
var repairPriceScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) ~= ARGV[1] then
    return 0
end
redis.call('ZADD', KEYS[2], ARGV[2], ARGV[3])
return 1
`)

type RedisPriceIndex struct {
	client *redis.Client
}

func NewPriceIndex(client *redis.Client) *RedisPriceIndex {
	return &RedisPriceIndex{client: client}
}

func (p *RedisPriceIndex) Range(ctx context.Context, offset, count int, descending bool) ([]domain.PricedItem, error) {
	if offset < 0 || count < 0 {
		return nil, fmt.Errorf("%w: offset %d count %d", domain.ErrInvalidPage, offset, count)
	}
	if count == 0 {
		return []domain.PricedItem{}, nil
	}

	start, stop := int64(offset), int64(offset+count-1)

	var (
		zs  []redis.Z
		err error
	)
	if descending {
		zs, err = p.client.ZRevRangeWithScores(ctx, itemsByPriceKey, start, stop).Result()
	} else {
		zs, err = p.client.ZRangeWithScores(ctx, itemsByPriceKey, start, stop).Result()
	}
	if err != nil {
		return nil, fmt.Errorf("range price index: %w", err)
	}

	items := make([]domain.PricedItem, 0, len(zs))
	for _, z := range zs {
		id, ok := z.Member.(string)
		if !ok {
			continue
		}
		items = append(items, domain.PricedItem{ItemID: id, Price: z.Score})
	}
	return items, nil
}

func (p *RedisPriceIndex) ItemIDs(ctx context.Context) ([]string, error) {
	ids, err := p.client.ZRange(ctx, itemsByPriceKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list price index: %w", err)
	}
	return ids, nil
}

func (p *RedisPriceIndex) Score(ctx context.Context, itemID string) (float64, bool, error) {
	score, err := p.client.ZScore(ctx, itemsByPriceKey, itemID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("score of item %s: %w", itemID, err)
	}
	return score, true, nil
}

func (p *RedisPriceIndex) Repair(ctx context.Context, lease domain.Lease, itemID string, price float64) error {
	if lease == nil || !lease.Valid() {
		return domain.ErrLockLost
	}

	res, err := repairPriceScript.Run(ctx, p.client,
		[]string{LockKey(itemID), itemsByPriceKey},
		lease.Token(), formatAmount(price), itemID,
	).Int()
	if err != nil {
		return fmt.Errorf("repair price index for item %s: %w", itemID, err)
	}
	if res == 0 {
		return domain.ErrLockLost
	}
	return nil
}
