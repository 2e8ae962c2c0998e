package services

import (
	"context"
	"testing"
	"time"

	"bidding-system/internal/domain"

	"github.com/stretchr/testify/assert"
)

type fixedRules float64

func (r fixedRules) GetMinimumIncrement(float64) float64 { return float64(r) }
func (r fixedRules) LoadRules(context.Context) error     { return nil }

func TestRuleBookValidator_Validate(t *testing.T) {
	now := baseTime
	open := &domain.Item{ID: "item1", Price: 100, EndingAt: now.Add(time.Hour)}
	closed := &domain.Item{ID: "item1", Price: 100, EndingAt: now.Add(-time.Second)}
	endsNow := &domain.Item{ID: "item1", Price: 100, EndingAt: now}

	tests := []struct {
		name    string
		rules   domain.BiddingRules
		item    *domain.Item
		amount  float64
		wantErr error
	}{
		{name: "accepts_higher_bid", item: open, amount: 150},
		{name: "missing_item", item: nil, amount: 150, wantErr: domain.ErrItemNotFound},
		{name: "tie_is_too_low", item: open, amount: 100, wantErr: domain.ErrBidTooLow},
		{name: "lower_is_too_low", item: open, amount: 99.99, wantErr: domain.ErrBidTooLow},
		{name: "closed_auction", item: closed, amount: 150, wantErr: domain.ErrAuctionClosed},
		{name: "ending_now_is_closed", item: endsNow, amount: 150, wantErr: domain.ErrAuctionClosed},
		{name: "too_low_wins_over_closed", item: closed, amount: 50, wantErr: domain.ErrBidTooLow},
		{name: "missing_item_wins_over_everything", item: nil, amount: -1, wantErr: domain.ErrItemNotFound},
		{name: "increment_applies", rules: fixedRules(10), item: open, amount: 110, wantErr: domain.ErrBidTooLow},
		{name: "increment_met", rules: fixedRules(10), item: open, amount: 110.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewRuleBookValidator(tt.rules)
			err := v.Validate(tt.item, domain.Bid{ItemID: "item1", UserID: "u1", Amount: tt.amount}, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
