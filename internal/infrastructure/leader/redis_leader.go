package leader

import (
	"context"
	"errors"
	"sync"
	"time"

	"bidding-system/internal/domain"
	"bidding-system/pkg/logger"

	"github.com/go-redis/redis/v8"
)

var _ domain.LeaderElection = (*RedisLeaderElection)(nil)

var releaseLeaderScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
else
    return 0
end
`)

var extendLeaderScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("PEXPIRE", KEYS[1], ARGV[2])
else
    return 0
end
`)

// RedisLeaderElection elects a single instance by holding key with a TTL.
// The holder refreshes the key every ttl/3 until it loses or releases it.
type RedisLeaderElection struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	log    logger.Logger

	mu        sync.Mutex
	heartbeat context.CancelFunc
	done      chan struct{}
}

func NewRedisLeaderElection(client *redis.Client, key string, ttl time.Duration, log logger.Logger) *RedisLeaderElection {
	return &RedisLeaderElection{
		client: client,
		key:    key,
		ttl:    ttl,
		log:    log,
	}
}

func (r *RedisLeaderElection) BecomeLeader(ctx context.Context, instanceID string) (bool, error) {
	acquired, err := r.client.SetNX(ctx, r.key, instanceID, r.ttl).Result()
	if err != nil {
		return false, err
	}

	if acquired {
		r.startHeartbeat(instanceID)
		r.log.Info("Acquired leadership", "key", r.key, "instance", instanceID)
	}

	return acquired, nil
}

func (r *RedisLeaderElection) IsLeader(ctx context.Context, instanceID string) (bool, error) {
	currentLeader, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	return currentLeader == instanceID, nil
}

func (r *RedisLeaderElection) ReleaseLeadership(ctx context.Context, instanceID string) error {
	r.stopHeartbeat()

	_, err := releaseLeaderScript.Run(ctx, r.client, []string{r.key}, instanceID).Result()
	return err
}

func (r *RedisLeaderElection) startHeartbeat(instanceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.heartbeat != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.heartbeat = cancel
	r.done = make(chan struct{})
	go r.maintainLeadership(ctx, instanceID, r.done)
}

func (r *RedisLeaderElection) stopHeartbeat() {
	r.mu.Lock()
	cancel, done := r.heartbeat, r.done
	r.heartbeat, r.done = nil, nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (r *RedisLeaderElection) maintainLeadership(ctx context.Context, instanceID string, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		extendCtx, cancel := context.WithTimeout(ctx, r.ttl/3)
		extended, err := extendLeaderScript.Run(extendCtx, r.client, []string{r.key},
			instanceID, r.ttl.Milliseconds()).Int64()
		cancel()

		if ctx.Err() != nil {
			return
		}
		if err != nil || extended == 0 {
			r.log.Warn("Lost leadership", "key", r.key, "instance", instanceID, "error", err)
			r.mu.Lock()
			if r.done == done {
				r.heartbeat()
				r.heartbeat, r.done = nil, nil
			}
			r.mu.Unlock()
			return
		}
	}
}
