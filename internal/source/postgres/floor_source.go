package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"nft-floor-twap/internal/domain"
	"nft-floor-twap/internal/source"
)

// FloorSource implements source.Source by reading the floor_prices table.
type FloorSource struct {
	pool *Pool
}

// NewFloorSource creates a new FloorSource.
func NewFloorSource(pool *Pool) *FloorSource {
	return &FloorSource{pool: pool}
}

// Compile-time interface check.
var _ source.Source = (*FloorSource)(nil)

// Name implements source.Source.
func (s *FloorSource) Name() string {
	return "postgres"
}

// floorRow is one floor_prices row. value is cast to text so NUMERIC(78, 0)
// wei amounts keep every digit.
type floorRow struct {
	Timestamp time.Time `db:"timestamp"`
	Value     string    `db:"value"`
}

// Fetch retrieves all records for a collection, ordered by timestamp ASC.
// Returns source.ErrNotFound when the collection has no rows.
func (s *FloorSource) Fetch(ctx context.Context, collection string) ([]domain.FloorRecord, error) {
	query := `
		SELECT timestamp, value::text AS value
		FROM floor_prices
		WHERE collection = $1
		ORDER BY timestamp ASC
	`

	rows, err := s.pool.Query(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("get floor prices by collection: %w", err)
	}
	floors, err := pgx.CollectRows(rows, pgx.RowToStructByName[floorRow])
	if err != nil {
		return nil, fmt.Errorf("scan floor price rows: %w", err)
	}
	if len(floors) == 0 {
		return nil, fmt.Errorf("%w: %s", source.ErrNotFound, collection)
	}
	return toRecords(floors), nil
}

// toRecords renders timestamps as RFC 3339 in UTC.
func toRecords(floors []floorRow) []domain.FloorRecord {
	records := make([]domain.FloorRecord, len(floors))
	for i, f := range floors {
		records[i] = domain.FloorRecord{
			Timestamp: f.Timestamp.UTC().Format(time.RFC3339Nano),
			Value:     f.Value,
		}
	}
	return records
}
