package lock

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"bidding-system/internal/domain"
	redisstore "bidding-system/internal/infrastructure/redis"
	"bidding-system/pkg/logger"

	goredislib "github.com/go-redis/redis/v8"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v8"
	"github.com/google/uuid"
)

// RedisLockManager hands out per-resource leases stored under lock:<resource>.
// Acquisition is a single SET NX PX, release deletes only if the token still
// matches, and renewal extends only if the token still matches.
type RedisLockManager struct {
	rs      *redsync.Redsync
	options options
	log     logger.Logger
}

func NewRedisLockManager(client *goredislib.Client, log logger.Logger, opts ...Option) *RedisLockManager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.normalize()

	return &RedisLockManager{
		rs:      redsync.New(goredis.NewPool(client)),
		options: o,
		log:     log,
	}
}

func (m *RedisLockManager) WithLock(ctx context.Context, resourceID string, fn domain.CriticalSection) error {
	lease, err := m.acquire(ctx, resourceID)
	if err != nil {
		return err
	}
	defer m.release(lease)

	return fn(ctx, lease)
}

func (m *RedisLockManager) acquire(ctx context.Context, resourceID string) (*redisLease, error) {
	mutex := m.rs.NewMutex(
		redisstore.LockKey(resourceID),
		redsync.WithExpiry(m.options.ttl),
		redsync.WithTries(1),
		redsync.WithGenValueFunc(func() (string, error) {
			return uuid.NewString(), nil
		}),
	)

	acquireCtx, cancel := context.WithTimeout(ctx, m.options.acquireTimeout)
	defer cancel()

	delay := m.options.retryDelay
	timer := time.NewTimer(0)
	defer timer.Stop()

	for attempt := 1; ; attempt++ {
		select {
		case <-acquireCtx.Done():
			return nil, m.acquireFailure(ctx, acquireCtx, resourceID, attempt-1)
		case <-timer.C:
		}
		if acquireCtx.Err() != nil {
			return nil, m.acquireFailure(ctx, acquireCtx, resourceID, attempt-1)
		}

		err := mutex.LockContext(acquireCtx)
		if err == nil {
			lease := newRedisLease(resourceID, mutex)
			lease.startRenewal(m.options.renewInterval, func(err error) {
				m.log.Warn("Lease renewal failed, lease marked expired",
					"resource", resourceID, "error", err)
			})
			m.log.Debug("Lease acquired", "resource", resourceID, "attempts", attempt)
			return lease, nil
		}

		if acquireCtx.Err() != nil {
			return nil, m.acquireFailure(ctx, acquireCtx, resourceID, attempt)
		}

		// Only contention is retried; a store failure goes straight back.
		var redisErr *redsync.RedisError
		if errors.As(err, &redisErr) {
			return nil, fmt.Errorf("acquire lease on %s: %w", resourceID, err)
		}

		timer.Reset(jitter(delay))
		delay = min(delay*2, m.options.maxRetryDelay)
	}
}

func (m *RedisLockManager) acquireFailure(parent, acquireCtx context.Context, resourceID string, attempts int) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return parent.Err()
	}
	m.log.Warn("Timed out acquiring lease", "resource", resourceID, "attempts", attempts,
		"timeout", m.options.acquireTimeout)
	return fmt.Errorf("%w: %s after %d attempts", domain.ErrLockTimeout, resourceID, attempts)
}

func (m *RedisLockManager) release(lease *redisLease) {
	lease.stopRenewal()
	lease.expire()

	ctx, cancel := context.WithTimeout(context.Background(), m.options.ttl)
	defer cancel()

	ok, err := lease.mutex.UnlockContext(ctx)
	if err != nil || !ok {
		// The lease expired or was taken over; the token check left it alone.
		m.log.Warn("Lease was not held at release", "resource", lease.resource, "error", err)
		return
	}
	m.log.Debug("Lease released", "resource", lease.resource)
}

// jitter spreads retries over [d/2, d].
func jitter(d time.Duration) time.Duration {
	half := d / 2
	if half <= 0 {
		return d
	}
	return half + time.Duration(rand.Int63n(int64(half+1)))
}
