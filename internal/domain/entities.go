package domain

import (
	"time"
)

// Item is the bid-relevant projection of an auctioned item. The item store owns
// the full record; bidding only ever writes Price, Bids and HighestBidUserID.
type Item struct {
	ID               string
	Name             string
	Price            float64
	Bids             int64
	EndingAt         time.Time
	HighestBidUserID string
	CreatedAt        time.Time
}

// Closed reports whether bidding has ended at now. An item ending exactly at
// now is closed.
func (i *Item) Closed(now time.Time) bool {
	return !i.EndingAt.After(now)
}

type Bid struct {
	ItemID    string
	UserID    string
	Amount    float64
	CreatedAt time.Time
}

// BidRecord is one immutable entry of an item's bid history log.
type BidRecord struct {
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// PricedItem is one entry of the price index.
type PricedItem struct {
	ItemID string  `json:"item_id"`
	Price  float64 `json:"price"`
}

type CommitOutcome int

const (
	CommitSuccess CommitOutcome = iota
	CommitPartialFailure
	CommitAborted
)

func (o CommitOutcome) String() string {
	switch o {
	case CommitSuccess:
		return "success"
	case CommitPartialFailure:
		return "partial_failure"
	case CommitAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// CommitResult is the outcome of the batched history/item/index write.
// PartialFailure means the store did not acknowledge the batch and its effect
// is unknown; it is never treated as success.
type CommitResult struct {
	Outcome CommitOutcome
	Err     error
}

func (r CommitResult) Succeeded() bool {
	return r.Outcome == CommitSuccess
}

type BidEvent struct {
	ID        string       `json:"id"`
	Type      BidEventType `json:"type"`
	ItemID    string       `json:"item_id"`
	UserID    string       `json:"user_id"`
	Amount    float64      `json:"amount"`
	CreatedAt time.Time    `json:"created_at"`
	Timestamp time.Time    `json:"timestamp"`
}

type BidEventType string

const (
	BidAccepted BidEventType = "bid_accepted"
)

// BidIncrementRules maps price tiers ("0-100", "100-500", "500+") to the
// minimum increment over the current price.
type BidIncrementRules struct {
	Rules map[string]float64 `json:"rules"`
}
