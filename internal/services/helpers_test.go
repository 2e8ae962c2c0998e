package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"bidding-system/internal/domain"
	"bidding-system/internal/infrastructure/lock"
	redisstore "bidding-system/internal/infrastructure/redis"
	"bidding-system/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) domain.Clock {
	return func() time.Time { return t }
}

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return client, mr, func() {
		client.Close()
		mr.Close()
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*domain.BidEvent
	err    error
}

func (p *recordingPublisher) PublishBidEvent(ctx context.Context, event *domain.BidEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) published() []*domain.BidEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*domain.BidEvent(nil), p.events...)
}

type bidFixture struct {
	client    *redis.Client
	mr        *miniredis.Miniredis
	service   *BidService
	store     *redisstore.RedisItemStore
	index     *redisstore.RedisPriceIndex
	publisher *recordingPublisher
}

func newBidFixture(t *testing.T, clock domain.Clock, cfg BidServiceConfig, lockOpts ...lock.Option) (*bidFixture, func()) {
	client, mr, cleanup := setupRedis(t)

	opts := append([]lock.Option{
		lock.WithTTL(time.Second),
		lock.WithRetryDelay(5 * time.Millisecond),
		lock.WithMaxRetryDelay(20 * time.Millisecond),
		lock.WithAcquireTimeout(3 * time.Second),
	}, lockOpts...)

	store := redisstore.NewItemStore(client)
	index := redisstore.NewPriceIndex(client)
	publisher := &recordingPublisher{}
	service := NewBidService(
		lock.NewRedisLockManager(client, logger.NewNop(), opts...),
		store,
		NewRuleBookValidator(nil),
		redisstore.NewBidCommitter(client),
		redisstore.NewHistoryReader(client),
		publisher,
		clock,
		cfg,
		logger.NewNop(),
	)

	return &bidFixture{
		client:    client,
		mr:        mr,
		service:   service,
		store:     store,
		index:     index,
		publisher: publisher,
	}, cleanup
}

func (f *bidFixture) seedItem(t *testing.T, id string, price float64, endingAt time.Time) {
	require.NoError(t, f.store.CreateItem(context.Background(), &domain.Item{
		ID:        id,
		Name:      "item " + id,
		Price:     price,
		EndingAt:  endingAt,
		CreatedAt: baseTime.Add(-time.Hour),
	}))
}

func (f *bidFixture) item(t *testing.T, id string) *domain.Item {
	item, err := f.store.GetItem(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, item)
	return item
}

func (f *bidFixture) indexed(t *testing.T, id string) float64 {
	score, ok, err := f.index.Score(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)
	return score
}

func (f *bidFixture) historyLen(t *testing.T, id string) int64 {
	n, err := f.client.LLen(context.Background(), "history#"+id).Result()
	require.NoError(t, err)
	return n
}
