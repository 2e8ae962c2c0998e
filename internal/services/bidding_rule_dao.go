package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"bidding-system/internal/domain"

	"github.com/go-redis/redis/v8"
)

const bidIncrementRulesKey = "bid_increment_rules"

// Price tiers of BidIncrementRules.
const (
	tierLow  = "0-100"
	tierMid  = "100-500"
	tierHigh = "500+"
)

var _ domain.BiddingRules = (*BiddingRuleDao)(nil)

// BiddingRuleDao serves tiered minimum increments kept in Redis. Without stored
// rules every tier is zero, so a bid only has to beat the current price.
type BiddingRuleDao struct {
	client *redis.Client

	mu    sync.RWMutex
	rules *domain.BidIncrementRules
}

func NewBiddingRuleDao(client *redis.Client) *BiddingRuleDao {
	return &BiddingRuleDao{
		client: client,
	}
}

func DefaultIncrementRules() *domain.BidIncrementRules {
	return &domain.BidIncrementRules{
		Rules: map[string]float64{
			tierLow:  0,
			tierMid:  0,
			tierHigh: 0,
		},
	}
}

func (d *BiddingRuleDao) LoadRules(ctx context.Context) error {
	data, err := d.client.Get(ctx, bidIncrementRulesKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return d.SaveRules(ctx, DefaultIncrementRules())
		}
		return err
	}

	var rules domain.BidIncrementRules
	if err := json.Unmarshal([]byte(data), &rules); err != nil {
		return err
	}

	d.mu.Lock()
	d.rules = &rules
	d.mu.Unlock()
	return nil
}

func (d *BiddingRuleDao) SaveRules(ctx context.Context, rules *domain.BidIncrementRules) error {
	data, err := json.Marshal(rules)
	if err != nil {
		return err
	}

	if err := d.client.Set(ctx, bidIncrementRulesKey, string(data), 0).Err(); err != nil {
		return err
	}

	d.mu.Lock()
	d.rules = rules
	d.mu.Unlock()
	return nil
}

// GetMinimumIncrement returns how much a bid must exceed amount by.
func (d *BiddingRuleDao) GetMinimumIncrement(amount float64) float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.rules == nil {
		return 0
	}
	switch {
	case amount < 100:
		return d.rules.Rules[tierLow]
	case amount < 500:
		return d.rules.Rules[tierMid]
	default:
		return d.rules.Rules[tierHigh]
	}
}
