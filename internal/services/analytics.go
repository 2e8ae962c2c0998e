package services

import (
	"context"

	"bidding-system/internal/domain"
	"bidding-system/pkg/logger"
)

// BidArchiver stores every accepted-bid event it receives.
type BidArchiver struct {
	subscriber domain.EventSubscriber
	bidRepo    domain.BidRepository
	log        logger.Logger
}

func NewBidArchiver(subscriber domain.EventSubscriber, bidRepo domain.BidRepository, log logger.Logger) *BidArchiver {
	return &BidArchiver{
		subscriber: subscriber,
		bidRepo:    bidRepo,
		log:        log,
	}
}

// Start blocks until ctx is done or the subscription fails.
func (a *BidArchiver) Start(ctx context.Context) error {
	a.log.Info("Starting bid archiver")

	return a.subscriber.SubscribeToBidEvents(ctx, func(event *domain.BidEvent) error {
		return a.Archive(ctx, event)
	})
}

func (a *BidArchiver) Archive(ctx context.Context, event *domain.BidEvent) error {
	if event.Type != domain.BidAccepted {
		return nil
	}

	a.log.Info("Storing bid event", "item_id", event.ItemID, "user_id", event.UserID,
		"amount", event.Amount, "event_id", event.ID)
	if err := a.bidRepo.SaveBidEvent(context.WithoutCancel(ctx), event); err != nil {
		a.log.Error("Failed to store bid event", "event_id", event.ID, "error", err)
		return err
	}
	return nil
}
