package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"bidding-system/internal/domain"
	"bidding-system/pkg/logger"
	"bidding-system/pkg/utils"
)

// ItemService is the item catalog: MySQL keeps the durable record, Redis keeps
// the snapshot that bidding reads and the price index used for browsing.
type ItemService struct {
	repo  domain.ItemRepository
	store domain.ItemStore
	index domain.PriceIndex
	clock domain.Clock
	log   logger.Logger
}

func NewItemService(repo domain.ItemRepository, store domain.ItemStore, index domain.PriceIndex,
	clock domain.Clock, log logger.Logger) *ItemService {
	if clock == nil {
		clock = time.Now
	}
	return &ItemService{
		repo:  repo,
		store: store,
		index: index,
		clock: clock,
		log:   log,
	}
}

func (s *ItemService) CreateItem(ctx context.Context, name string, startingPrice float64, endingAt time.Time) (*domain.Item, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidItem)
	case math.IsNaN(startingPrice) || math.IsInf(startingPrice, 0) || startingPrice < 0:
		return nil, fmt.Errorf("%w: starting price must be a non-negative number", domain.ErrInvalidItem)
	case endingAt.IsZero():
		return nil, fmt.Errorf("%w: ending time is required", domain.ErrInvalidItem)
	}

	now := s.clock()
	if !endingAt.After(now) {
		return nil, fmt.Errorf("%w: ending time must be in the future", domain.ErrInvalidItem)
	}

	// Redis keeps millisecond precision.
	item := &domain.Item{
		ID:        utils.GenerateID("item"),
		Name:      name,
		Price:     startingPrice,
		EndingAt:  endingAt.Truncate(time.Millisecond),
		CreatedAt: now.Truncate(time.Millisecond),
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		s.log.Error("Failed to save item", "item_id", item.ID, "error", err)
		return nil, err
	}

	if err := s.store.CreateItem(ctx, item); err != nil {
		s.log.Error("Failed to initialize item for bidding", "item_id", item.ID, "error", err)
		return nil, err
	}

	s.log.Info("Item created", "item_id", item.ID, "starting_price", startingPrice, "ending_at", item.EndingAt)
	return item, nil
}

func (s *ItemService) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		s.log.Error("Failed to read item", "item_id", itemID, "error", err)
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	return item, nil
}

func (s *ItemService) ListByPrice(ctx context.Context, offset, count int, descending bool) ([]domain.PricedItem, error) {
	return s.index.Range(ctx, offset, count, descending)
}
