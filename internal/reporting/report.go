package reporting

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary represents the human-readable run summary.
type Summary struct {
	// Metadata
	GeneratedAt time.Time
	Collection  string
	Fingerprint string // hex fingerprint of the computed result

	// Input and grid
	Observations    int
	DensifiedPoints int
	StartMs         int64
	EndMs           int64

	Floor SeriesStats
	Twaps []SeriesStats // ascending by WindowHours
}

// SeriesStats describes one chart series.
type SeriesStats struct {
	Name        string
	WindowHours int // 0 for the floor series
	Points      int
	Last        decimal.Decimal
	Min         decimal.Decimal
	Max         decimal.Decimal
}
