package services

import (
	"fmt"
	"time"

	"bidding-system/internal/domain"
)

var _ domain.BidValidator = (*RuleBookValidator)(nil)

// RuleBookValidator applies the bid rules in order, first failure wins:
// missing item, amount not above price plus increment, auction closed.
type RuleBookValidator struct {
	rules domain.BiddingRules
}

// NewRuleBookValidator accepts nil rules, meaning no increment.
func NewRuleBookValidator(rules domain.BiddingRules) *RuleBookValidator {
	return &RuleBookValidator{rules: rules}
}

func (v *RuleBookValidator) Validate(item *domain.Item, bid domain.Bid, now time.Time) error {
	if item == nil {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, bid.ItemID)
	}

	minimum := item.Price
	if v.rules != nil {
		minimum += v.rules.GetMinimumIncrement(item.Price)
	}
	if bid.Amount <= minimum {
		return fmt.Errorf("%w: %s must exceed %s", domain.ErrBidTooLow,
			formatPrice(bid.Amount), formatPrice(minimum))
	}

	if item.Closed(now) {
		return fmt.Errorf("%w: %s ended at %s", domain.ErrAuctionClosed, item.ID,
			item.EndingAt.UTC().Format(time.RFC3339))
	}

	return nil
}

func formatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
