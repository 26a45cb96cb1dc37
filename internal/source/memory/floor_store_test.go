package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nft-floor-twap/internal/domain"
	"nft-floor-twap/internal/source"
)

func TestFloorStore_PutAndFetch(t *testing.T) {
	store := NewFloorStore()
	ctx := context.Background()

	records := []domain.FloorRecord{
		{Timestamp: "2022-04-01T00:00:00Z", Value: "100000000000000000000"},
		{Timestamp: "2022-04-01T00:10:00Z", Value: "110000000000000000000"},
	}
	store.Put("boredapeyachtclub", records)

	got, err := store.Fetch(ctx, "boredapeyachtclub")
	require.NoError(t, err)
	assert.Equal(t, records, got)
	assert.Equal(t, 1, store.Collections())

	// Returned slice is a copy
	got[0].Value = "0"
	again, err := store.Fetch(ctx, "boredapeyachtclub")
	require.NoError(t, err)
	assert.Equal(t, "100000000000000000000", again[0].Value)
}

func TestFloorStore_NotFound(t *testing.T) {
	store := NewFloorStore()

	_, err := store.Fetch(context.Background(), "missing")
	assert.ErrorIs(t, err, source.ErrNotFound)
}

func TestFloorStore_Empty(t *testing.T) {
	store := NewFloorStore()
	store.Put("empty", nil)

	_, err := store.Fetch(context.Background(), "empty")
	assert.ErrorIs(t, err, source.ErrEmpty)
}
