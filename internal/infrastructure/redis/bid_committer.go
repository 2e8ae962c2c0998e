package redis

import (
	"bidding-system/internal/domain"
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// commitBidScript fences the batch on the lease token, then appends the history
// record, updates the item hash and moves the price index entry.
//
// KEYS: lock, history, item, price index
// ARGV: token, record, amount, user id, item id
var commitBidScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) ~= ARGV[1] then
    return 0
end
if redis.call('EXISTS', KEYS[3]) == 0 then
    return -1
end
redis.call('RPUSH', KEYS[2], ARGV[2])
redis.call('HINCRBY', KEYS[3], 'bids', 1)
redis.call('HSET', KEYS[3], 'price', ARGV[3], 'highestBidUserId', ARGV[4])
redis.call('ZADD', KEYS[4], ARGV[3], ARGV[5])
return 1
`)

const (
	commitApplied      = 1
	commitTokenMissing = 0
	commitItemMissing  = -1
)

type RedisBidCommitter struct {
	client *redis.Client
}

func NewBidCommitter(client *redis.Client) *RedisBidCommitter {
	return &RedisBidCommitter{client: client}
}

// Commit applies the accepted bid as a single script call. The lease is checked
// locally right before the call and again by token inside the script, so a lease
// that expired or was taken over never produces any of the three writes.
func (c *RedisBidCommitter) Commit(ctx context.Context, lease domain.Lease, item *domain.Item, bid domain.Bid) domain.CommitResult {
	if item == nil {
		return domain.CommitResult{Outcome: domain.CommitAborted, Err: domain.ErrItemNotFound}
	}
	if lease == nil || !lease.Valid() {
		return domain.CommitResult{Outcome: domain.CommitAborted, Err: domain.ErrLockLost}
	}

	keys := []string{LockKey(item.ID), bidHistoryKey(item.ID), itemsKey(item.ID), itemsByPriceKey}
	args := []interface{}{
		lease.Token(),
		SerializeHistory(bid.Amount, bid.CreatedAt),
		formatAmount(bid.Amount),
		bid.UserID,
		item.ID,
	}

	// Once sent, the batch is not cancelled with the caller.
	res, err := commitBidScript.Run(context.WithoutCancel(ctx), c.client, keys, args...).Int()
	if err != nil {
		return domain.CommitResult{
			Outcome: domain.CommitPartialFailure,
			Err:     fmt.Errorf("commit bid on item %s: %w", item.ID, err),
		}
	}

	switch res {
	case commitApplied:
		return domain.CommitResult{Outcome: domain.CommitSuccess}
	case commitTokenMissing:
		return domain.CommitResult{Outcome: domain.CommitAborted, Err: domain.ErrLockLost}
	case commitItemMissing:
		return domain.CommitResult{Outcome: domain.CommitAborted, Err: domain.ErrItemNotFound}
	default:
		return domain.CommitResult{
			Outcome: domain.CommitPartialFailure,
			Err:     fmt.Errorf("commit bid on item %s: unexpected script result %d", item.ID, res),
		}
	}
}
