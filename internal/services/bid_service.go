package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"bidding-system/internal/domain"
	"bidding-system/pkg/logger"
	"bidding-system/pkg/utils"
)

const publishTimeout = 2 * time.Second

type BidServiceConfig struct {
	// ProcessingDelay pauses the critical section between the item read and
	// validation.
	ProcessingDelay    time.Duration
	HistoryMaxPageSize int
}

// BidService runs bid submission: lease the item, re-read it, validate, and
// commit history, item and price index in one batch while the lease is valid.
type BidService struct {
	locks     domain.LockManager
	items     domain.ItemStore
	validator domain.BidValidator
	committer domain.BidCommitter
	history   domain.BidHistoryReader
	publisher domain.EventPublisher
	clock     domain.Clock
	cfg       BidServiceConfig
	log       logger.Logger
}

func NewBidService(
	locks domain.LockManager,
	items domain.ItemStore,
	validator domain.BidValidator,
	committer domain.BidCommitter,
	history domain.BidHistoryReader,
	publisher domain.EventPublisher,
	clock domain.Clock,
	cfg BidServiceConfig,
	log logger.Logger,
) *BidService {
	if clock == nil {
		clock = time.Now
	}
	return &BidService{
		locks:     locks,
		items:     items,
		validator: validator,
		committer: committer,
		history:   history,
		publisher: publisher,
		clock:     clock,
		cfg:       cfg,
		log:       log,
	}
}

// CreateBid returns the accepted bid with CreatedAt filled in. Lock errors are
// returned as ErrLockTimeout or ErrLockLost and are never retried here.
func (s *BidService) CreateBid(ctx context.Context, bid domain.Bid) (domain.Bid, error) {
	if err := checkBid(bid); err != nil {
		return domain.Bid{}, err
	}
	if bid.CreatedAt.IsZero() {
		bid.CreatedAt = s.clock()
	}

	s.log.Info("Placing bid", "item_id", bid.ItemID, "user_id", bid.UserID, "amount", bid.Amount)

	err := s.locks.WithLock(ctx, bid.ItemID, func(ctx context.Context, lease domain.Lease) error {
		return s.placeBid(ctx, lease, bid)
	})
	if err != nil {
		s.logRejection(bid, err)
		return domain.Bid{}, err
	}

	s.log.Info("Bid accepted", "item_id", bid.ItemID, "user_id", bid.UserID, "amount", bid.Amount)
	s.publishAccepted(ctx, bid)
	return bid, nil
}

func (s *BidService) placeBid(ctx context.Context, lease domain.Lease, bid domain.Bid) error {
	// Anything read before the lease was held may be stale.
	item, err := s.items.GetItem(ctx, bid.ItemID)
	if err != nil {
		return fmt.Errorf("read item %s: %w", bid.ItemID, err)
	}

	if s.cfg.ProcessingDelay > 0 {
		timer := time.NewTimer(s.cfg.ProcessingDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	if err := s.validator.Validate(item, bid, s.clock()); err != nil {
		return err
	}

	result := s.committer.Commit(ctx, lease, item, bid)
	switch result.Outcome {
	case domain.CommitSuccess:
		return nil
	case domain.CommitAborted:
		s.log.Warn("Bid commit aborted", "item_id", bid.ItemID, "user_id", bid.UserID,
			"amount", bid.Amount, "error", result.Err)
		return result.Err
	default:
		s.log.Error("Bid commit not acknowledged", "item_id", bid.ItemID, "user_id", bid.UserID,
			"amount", bid.Amount, "outcome", result.Outcome.String(), "error", result.Err)
		return fmt.Errorf("commit bid on %s: %w", bid.ItemID, result.Err)
	}
}

func (s *BidService) logRejection(bid domain.Bid, err error) {
	switch {
	case errors.Is(err, domain.ErrLockTimeout), errors.Is(err, domain.ErrLockLost):
		s.log.Warn("Bid not placed, lease unavailable", "item_id", bid.ItemID, "user_id", bid.UserID,
			"amount", bid.Amount, "error", err)
	case errors.Is(err, domain.ErrItemNotFound), errors.Is(err, domain.ErrBidTooLow),
		errors.Is(err, domain.ErrAuctionClosed):
		s.log.Info("Bid rejected", "item_id", bid.ItemID, "user_id", bid.UserID,
			"amount", bid.Amount, "reason", err)
	case errors.Is(err, context.Canceled):
		s.log.Debug("Bid canceled by caller", "item_id", bid.ItemID, "user_id", bid.UserID)
	default:
		s.log.Error("Failed to place bid", "item_id", bid.ItemID, "user_id", bid.UserID, "error", err)
	}
}

// publishAccepted never fails the bid; the event stream is best effort.
func (s *BidService) publishAccepted(ctx context.Context, bid domain.Bid) {
	if s.publisher == nil {
		return
	}

	event := &domain.BidEvent{
		ID:        utils.GenerateID("evt"),
		Type:      domain.BidAccepted,
		ItemID:    bid.ItemID,
		UserID:    bid.UserID,
		Amount:    bid.Amount,
		CreatedAt: bid.CreatedAt,
		Timestamp: s.clock(),
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.PublishBidEvent(pubCtx, event); err != nil {
		s.log.Error("Failed to publish bid event", "item_id", bid.ItemID, "event_id", event.ID, "error", err)
	}
}

// GetBidHistory returns up to count records, most recent first. count is
// clamped to the configured maximum page size.
func (s *BidService) GetBidHistory(ctx context.Context, itemID string, offset, count int) ([]domain.BidRecord, error) {
	if offset < 0 || count < 0 {
		return nil, fmt.Errorf("%w: offset=%d count=%d", domain.ErrInvalidPage, offset, count)
	}
	if s.cfg.HistoryMaxPageSize > 0 && count > s.cfg.HistoryMaxPageSize {
		count = s.cfg.HistoryMaxPageSize
	}

	records, err := s.history.GetHistory(ctx, itemID, offset, count)
	if err != nil {
		s.log.Error("Failed to read bid history", "item_id", itemID, "error", err)
		return nil, err
	}
	return records, nil
}

func checkBid(bid domain.Bid) error {
	switch {
	case bid.ItemID == "":
		return fmt.Errorf("%w: item id is required", domain.ErrInvalidBid)
	case bid.UserID == "":
		return fmt.Errorf("%w: user id is required", domain.ErrInvalidBid)
	case math.IsNaN(bid.Amount) || math.IsInf(bid.Amount, 0) || bid.Amount <= 0:
		return fmt.Errorf("%w: amount must be a positive number", domain.ErrInvalidBid)
	}
	return nil
}
