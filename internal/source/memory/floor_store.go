package memory

import (
	"context"
	"sync"

	"nft-floor-twap/internal/domain"
	"nft-floor-twap/internal/source"
)

// FloorStore is an in-memory implementation of source.Source.
type FloorStore struct {
	mu   sync.RWMutex
	data map[string][]domain.FloorRecord // keyed by collection
}

// NewFloorStore creates a new in-memory floor store.
func NewFloorStore() *FloorStore {
	return &FloorStore{
		data: make(map[string][]domain.FloorRecord),
	}
}

// Name implements source.Source.
func (s *FloorStore) Name() string {
	return "memory"
}

// Put replaces the records for a collection.
func (s *FloorStore) Put(collection string, records []domain.FloorRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recordsCopy := make([]domain.FloorRecord, len(records))
	copy(recordsCopy, records)
	s.data[collection] = recordsCopy
}

// Collections returns the number of stored collections.
func (s *FloorStore) Collections() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Fetch returns a copy of the records for a collection in insertion order.
func (s *FloorStore) Fetch(_ context.Context, collection string) ([]domain.FloorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.data[collection]
	if !ok {
		return nil, source.ErrNotFound
	}
	if len(records) == 0 {
		return nil, source.ErrEmpty
	}

	result := make([]domain.FloorRecord, len(records))
	copy(result, records)
	return result, nil
}

var _ source.Source = (*FloorStore)(nil)
