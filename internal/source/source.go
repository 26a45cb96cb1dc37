// Package source defines where floor price records come from.
package source

import (
	"context"
	"errors"

	"nft-floor-twap/internal/domain"
)

// Source errors.
var (
	// ErrNotFound is returned when a collection is unknown to the source.
	ErrNotFound = errors.New("collection not found")

	// ErrEmpty is returned when a collection exists but has no records.
	ErrEmpty = errors.New("collection has no floor records")
)

// Source supplies raw floor records for a collection, sorted ascending by
// timestamp. Implementations do not parse or rescale values.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// Fetch returns all records for collection.
	Fetch(ctx context.Context, collection string) ([]domain.FloorRecord, error)
}
