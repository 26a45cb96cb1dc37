package domain

import "github.com/shopspring/decimal"

// FloorRecord is a floor price record as delivered by a data source.
// Value is an integer string scaled by 10^18 (wei).
type FloorRecord struct {
	Timestamp string `json:"timestamp"` // ISO-8601 or epoch string
	Value     string `json:"value"`     // wei-scaled decimal string
}

// Observation is a parsed floor price at a point in time.
// Observations for a collection are sorted ascending by TimestampMs.
type Observation struct {
	TimestampMs int64           // Unix timestamp in milliseconds
	Value       decimal.Decimal // human-scaled price (wei / 10^18)
}
