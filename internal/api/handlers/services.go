package handlers

import (
	"context"
	"time"

	"bidding-system/internal/domain"
)

//go:generate mockgen -source=services.go -destination=mock_services_test.go -package=handlers

type BidService interface {
	CreateBid(ctx context.Context, bid domain.Bid) (domain.Bid, error)
	GetBidHistory(ctx context.Context, itemID string, offset, count int) ([]domain.BidRecord, error)
}

type ItemCatalog interface {
	CreateItem(ctx context.Context, name string, startingPrice float64, endingAt time.Time) (*domain.Item, error)
	GetItem(ctx context.Context, itemID string) (*domain.Item, error)
	ListByPrice(ctx context.Context, offset, count int, descending bool) ([]domain.PricedItem, error)
}
