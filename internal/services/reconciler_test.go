package services

import (
	"context"
	"testing"
	"time"

	"bidding-system/internal/domain"
	"bidding-system/internal/infrastructure/leader"
	"bidding-system/internal/infrastructure/lock"
	redisstore "bidding-system/internal/infrastructure/redis"
	"bidding-system/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reconcilerLeaderKey = "bid_reconciler_leader"

func newTestReconciler(client *redis.Client, instanceID string) *PriceIndexReconciler {
	return NewPriceIndexReconciler(
		"@every 1h",
		leader.NewRedisLeaderElection(client, reconcilerLeaderKey, 3*time.Second, logger.NewNop()),
		instanceID,
		lock.NewRedisLockManager(client, logger.NewNop(),
			lock.WithRetryDelay(5*time.Millisecond), lock.WithAcquireTimeout(100*time.Millisecond)),
		redisstore.NewItemStore(client),
		redisstore.NewPriceIndex(client),
		logger.NewNop(),
	)
}

func seedIndexedItem(t *testing.T, client *redis.Client, id string, price float64) {
	require.NoError(t, redisstore.NewItemStore(client).CreateItem(context.Background(), &domain.Item{
		ID:        id,
		Name:      "item " + id,
		Price:     price,
		EndingAt:  baseTime.Add(time.Hour),
		CreatedAt: baseTime,
	}))
}

func scoreOf(t *testing.T, mr *miniredis.Miniredis, id string) float64 {
	score, err := mr.ZScore("items:price", id)
	require.NoError(t, err)
	return score
}

func TestReconcile_RepairsDivergedEntries(t *testing.T) {
	client, mr, cleanup := setupRedis(t)
	defer cleanup()

	seedIndexedItem(t, client, "item1", 150)
	seedIndexedItem(t, client, "item2", 200)
	seedIndexedItem(t, client, "item3", 250)

	_, err := mr.ZAdd("items:price", 120, "item1")
	require.NoError(t, err)
	_, err = mr.ZAdd("items:price", 999, "item3")
	require.NoError(t, err)

	repaired, err := newTestReconciler(client, "instance-1").Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repaired)

	assert.Equal(t, 150.0, scoreOf(t, mr, "item1"))
	assert.Equal(t, 200.0, scoreOf(t, mr, "item2"))
	assert.Equal(t, 250.0, scoreOf(t, mr, "item3"))

	for _, id := range []string{"item1", "item2", "item3"} {
		assert.False(t, mr.Exists(redisstore.LockKey(id)), "lease released for %s", id)
	}
}

func TestReconcile_SkipsLeasedAndOrphanedEntries(t *testing.T) {
	client, mr, cleanup := setupRedis(t)
	defer cleanup()

	seedIndexedItem(t, client, "busy", 150)
	_, err := mr.ZAdd("items:price", 1, "busy")
	require.NoError(t, err)
	require.NoError(t, mr.Set(redisstore.LockKey("busy"), "bidder-token"))

	_, err = mr.ZAdd("items:price", 42, "orphan")
	require.NoError(t, err)

	repaired, err := newTestReconciler(client, "instance-1").Reconcile(context.Background())
	require.NoError(t, err)
	assert.Zero(t, repaired)

	assert.Equal(t, 1.0, scoreOf(t, mr, "busy"), "an item under another lease is left alone")
	assert.Equal(t, 42.0, scoreOf(t, mr, "orphan"))
}

func TestRunIfLeader_OnlyLeaderReconciles(t *testing.T) {
	client, mr, cleanup := setupRedis(t)
	defer cleanup()

	seedIndexedItem(t, client, "item1", 150)
	_, err := mr.ZAdd("items:price", 1, "item1")
	require.NoError(t, err)

	require.NoError(t, mr.Set(reconcilerLeaderKey, "instance-2"))

	follower := newTestReconciler(client, "instance-1")
	follower.runIfLeader(context.Background())
	assert.Equal(t, 1.0, scoreOf(t, mr, "item1"))

	mr.Del(reconcilerLeaderKey)
	follower.runIfLeader(context.Background())
	assert.Equal(t, 150.0, scoreOf(t, mr, "item1"))

	got, err := mr.Get(reconcilerLeaderKey)
	require.NoError(t, err)
	assert.Equal(t, "instance-1", got)

	require.NoError(t, follower.Stop(context.Background()))
	assert.False(t, mr.Exists(reconcilerLeaderKey))
}

func TestReconciler_StartRejectsBadSchedule(t *testing.T) {
	client, _, cleanup := setupRedis(t)
	defer cleanup()

	r := newTestReconciler(client, "instance-1")
	r.schedule = "not a schedule"
	assert.Error(t, r.Start(context.Background()))
}
