package clickhouse

import (
	"context"
	"fmt"
	"strconv"

	"nft-floor-twap/internal/domain"
	"nft-floor-twap/internal/source"
)

// FloorSource implements source.Source by reading the floor_prices table.
type FloorSource struct {
	conn *Conn
}

// NewFloorSource creates a new FloorSource.
func NewFloorSource(conn *Conn) *FloorSource {
	return &FloorSource{conn: conn}
}

// Compile-time interface check.
var _ source.Source = (*FloorSource)(nil)

// Name implements source.Source.
func (s *FloorSource) Name() string {
	return "clickhouse"
}

// floorRow is one floor_prices row. value is read through toString so
// UInt256 wei amounts keep every digit.
type floorRow struct {
	TimestampMs uint64 `ch:"timestamp_ms"`
	Value       string `ch:"value"`
}

// Fetch retrieves all records for a collection, ordered by timestamp ASC.
// FINAL collapses rows the ReplacingMergeTree has not merged yet.
// Returns source.ErrNotFound when the collection has no rows.
func (s *FloorSource) Fetch(ctx context.Context, collection string) ([]domain.FloorRecord, error) {
	query := `
		SELECT timestamp_ms, toString(value) AS value
		FROM floor_prices FINAL
		WHERE collection = ?
		ORDER BY timestamp_ms ASC
	`

	var floors []floorRow
	if err := s.conn.Select(ctx, &floors, query, collection); err != nil {
		return nil, fmt.Errorf("select floor prices by collection: %w", err)
	}
	if len(floors) == 0 {
		return nil, fmt.Errorf("%w: %s", source.ErrNotFound, collection)
	}
	return toRecords(floors), nil
}

// toRecords renders timestamps as epoch millisecond strings.
func toRecords(floors []floorRow) []domain.FloorRecord {
	records := make([]domain.FloorRecord, len(floors))
	for i, f := range floors {
		records[i] = domain.FloorRecord{
			Timestamp: strconv.FormatUint(f.TimestampMs, 10),
			Value:     f.Value,
		}
	}
	return records
}
