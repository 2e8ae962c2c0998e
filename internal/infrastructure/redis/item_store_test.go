package redis

import (
	"bidding-system/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemStore_CreateAndGet(t *testing.T) {
	client, mr, cleanup := setupTest(t)
	defer cleanup()

	store := NewItemStore(client)
	ctx := context.Background()
	endingAt := time.UnixMilli(time.Now().Add(time.Hour).UnixMilli())

	item := &domain.Item{
		ID:        "item1",
		Name:      "Guitar",
		Price:     100,
		EndingAt:  endingAt,
		CreatedAt: time.UnixMilli(1_700_000_000_000),
	}
	require.NoError(t, store.CreateItem(ctx, item))

	got, err := store.GetItem(ctx, "item1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "item1", got.ID)
	assert.Equal(t, "Guitar", got.Name)
	assert.Equal(t, 100.0, got.Price)
	assert.Equal(t, int64(0), got.Bids)
	assert.Equal(t, "", got.HighestBidUserID)
	assert.True(t, endingAt.Equal(got.EndingAt))

	score, err := mr.ZScore(itemsByPriceKey, "item1")
	require.NoError(t, err)
	assert.Equal(t, 100.0, score)
}

func TestItemStore_GetMissing(t *testing.T) {
	client, _, cleanup := setupTest(t)
	defer cleanup()

	got, err := NewItemStore(client).GetItem(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestItemStore_GetCorrupt(t *testing.T) {
	client, mr, cleanup := setupTest(t)
	defer cleanup()

	mr.HSet(itemsKey("item1"), "price", "a lot")

	_, err := NewItemStore(client).GetItem(context.Background(), "item1")
	assert.Error(t, err)
}
