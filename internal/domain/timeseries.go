package domain

import "github.com/shopspring/decimal"

// Grid constants for densified series.
const (
	// StepMs is the spacing of the densified grid: 5 minutes.
	StepMs int64 = 5 * 60 * 1000

	// SamplesPerHour is the number of StepMs ticks in one hour.
	SamplesPerHour = 12

	// PriceDecimals is the number of fractional digits a human-scaled price
	// carries (1 wei).
	PriceDecimals int32 = 18
)

// DefaultWindowHours are the TWAP look-back windows used when none are configured.
var DefaultWindowHours = []int{1, 4, 8}

// PricePoint is one entry on the densified grid.
// Both the forward-filled series and every TWAP series are []PricePoint.
type PricePoint struct {
	TimestampMs int64           // Unix timestamp in milliseconds
	Price       decimal.Decimal // human-scaled price
}

// TwapSeries is the rolling average output for one look-back window.
type TwapSeries struct {
	WindowHours int          // look-back period in hours
	Points      []PricePoint // aligned with the densified grid
}

// WindowSamples returns the number of 5-minute samples in an h-hour window.
func WindowSamples(hours int) int {
	return hours * SamplesPerHour
}

// ObservationsToPoints maps raw observations onto PricePoint so that the
// same lookup helpers apply to the raw floor series.
func ObservationsToPoints(obs []Observation) []PricePoint {
	points := make([]PricePoint, len(obs))
	for i, o := range obs {
		points[i] = PricePoint{TimestampMs: o.TimestampMs, Price: o.Value}
	}
	return points
}
