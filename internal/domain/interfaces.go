package domain

import (
	"context"
	"time"
)

// Clock supplies the current time; timestamp generation is injected.
type Clock func() time.Time

// Lease is a held, time-bounded claim on a resource. Valid reflects the most
// recently known state of the lease, including renewal failures that happened
// after acquisition.
type Lease interface {
	Resource() string
	Token() string
	Valid() bool
	ExpiresAt() time.Time
}

type CriticalSection func(ctx context.Context, lease Lease) error

type LockManager interface {
	// WithLock runs fn while holding resourceID's lease and releases it afterwards.
	WithLock(ctx context.Context, resourceID string, fn CriticalSection) error
}

// Store interfaces
type ItemStore interface {
	// GetItem returns nil, nil when the item does not exist.
	GetItem(ctx context.Context, itemID string) (*Item, error)
	CreateItem(ctx context.Context, item *Item) error
}

type BidCommitter interface {
	Commit(ctx context.Context, lease Lease, item *Item, bid Bid) CommitResult
}

type BidHistoryReader interface {
	GetHistory(ctx context.Context, itemID string, offset, count int) ([]BidRecord, error)
}

type PriceIndex interface {
	Range(ctx context.Context, offset, count int, descending bool) ([]PricedItem, error)
	ItemIDs(ctx context.Context) ([]string, error)
	Score(ctx context.Context, itemID string) (float64, bool, error)
	Repair(ctx context.Context, lease Lease, itemID string, price float64) error
}

// Repository interfaces
type ItemRepository interface {
	CreateItem(ctx context.Context, item *Item) error
	GetItem(ctx context.Context, itemID string) (*Item, error)
}

type BidRepository interface {
	SaveBidEvent(ctx context.Context, event *BidEvent) error
	GetBidHistory(ctx context.Context, itemID string) ([]*BidEvent, error)
}

// Validation interfaces
type BidValidator interface {
	Validate(item *Item, bid Bid, now time.Time) error
}

type BiddingRules interface {
	GetMinimumIncrement(amount float64) float64
	LoadRules(ctx context.Context) error
}

// Event interfaces
type EventPublisher interface {
	PublishBidEvent(ctx context.Context, event *BidEvent) error
}

type EventSubscriber interface {
	SubscribeToBidEvents(ctx context.Context, handler EventHandler) error
}

type EventHandler func(event *BidEvent) error

// Leader election interface
type LeaderElection interface {
	BecomeLeader(ctx context.Context, instanceID string) (bool, error)
	IsLeader(ctx context.Context, instanceID string) (bool, error)
	ReleaseLeadership(ctx context.Context, instanceID string) error
}
