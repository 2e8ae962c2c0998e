package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redsync/redsync/v4"
)

// redisLease is a held redsync mutex plus its renewal loop. Valid only reads
// atomics, so critical sections may poll it while the loop runs.
type redisLease struct {
	resource string
	token    string
	mutex    *redsync.Mutex

	valid     atomic.Bool
	expiresAt atomic.Int64 // unix nanos

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newRedisLease(resource string, mutex *redsync.Mutex) *redisLease {
	l := &redisLease{
		resource: resource,
		token:    mutex.Value(),
		mutex:    mutex,
	}
	l.expiresAt.Store(mutex.Until().UnixNano())
	l.valid.Store(true)
	return l
}

func (l *redisLease) Resource() string {
	return l.resource
}

func (l *redisLease) Token() string {
	return l.token
}

func (l *redisLease) ExpiresAt() time.Time {
	return time.Unix(0, l.expiresAt.Load())
}

// Valid is false once renewal failed, the lease was released, or the last known
// expiry has passed.
func (l *redisLease) Valid() bool {
	return l.valid.Load() && time.Now().UnixNano() < l.expiresAt.Load()
}

func (l *redisLease) expire() {
	l.valid.Store(false)
}

// startRenewal extends the lease every interval until stopRenewal is called or
// an extension fails. onLost runs at most once, from the renewal goroutine.
func (l *redisLease) startRenewal(interval time.Duration, onLost func(err error)) {
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				extendCtx, cancelExtend := context.WithTimeout(ctx, interval)
				ok, err := l.mutex.ExtendContext(extendCtx)
				cancelExtend()
				if ctx.Err() != nil {
					return
				}
				if err != nil || !ok {
					l.expire()
					onLost(err)
					return
				}
				l.expiresAt.Store(l.mutex.Until().UnixNano())
			}
		}
	}()
}

func (l *redisLease) stopRenewal() {
	if l.cancel != nil {
		l.cancel()
	}
	l.wg.Wait()
}
