package lock

import "time"

type options struct {
	ttl            time.Duration
	retryDelay     time.Duration
	maxRetryDelay  time.Duration
	acquireTimeout time.Duration
	renewInterval  time.Duration
}

type Option func(*options)

// WithTTL sets how long a lease lives without renewal.
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		o.ttl = d
	}
}

// WithRetryDelay sets the first backoff step between acquisition attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(o *options) {
		o.retryDelay = d
	}
}

// WithMaxRetryDelay caps the backoff.
func WithMaxRetryDelay(d time.Duration) Option {
	return func(o *options) {
		o.maxRetryDelay = d
	}
}

// WithAcquireTimeout bounds how long WithLock waits for the lease.
func WithAcquireTimeout(d time.Duration) Option {
	return func(o *options) {
		o.acquireTimeout = d
	}
}

// WithRenewInterval sets the renewal cadence; zero means TTL/3.
func WithRenewInterval(d time.Duration) Option {
	return func(o *options) {
		o.renewInterval = d
	}
}

func defaultOptions() options {
	return options{
		ttl:            2 * time.Second,
		retryDelay:     100 * time.Millisecond,
		maxRetryDelay:  500 * time.Millisecond,
		acquireTimeout: 2 * time.Second,
	}
}

func (o *options) normalize() {
	if o.ttl <= 0 {
		o.ttl = 2 * time.Second
	}
	if o.renewInterval <= 0 || o.renewInterval >= o.ttl {
		o.renewInterval = o.ttl / 3
	}
	if o.retryDelay <= 0 {
		o.retryDelay = 100 * time.Millisecond
	}
	if o.maxRetryDelay < o.retryDelay {
		o.maxRetryDelay = o.retryDelay
	}
	if o.acquireTimeout <= 0 {
		o.acquireTimeout = o.ttl
	}
}
