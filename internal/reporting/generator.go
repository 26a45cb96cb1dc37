package reporting

import (
	"fmt"
	"time"

	"nft-floor-twap/internal/domain"
	"nft-floor-twap/internal/lookup"
	"nft-floor-twap/internal/twap"
)

// Generator produces summaries from computed results.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new summary generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds a Summary for one collection.
func (g *Generator) Generate(collection string, floors []domain.Observation, result *twap.Result, fingerprint string) (*Summary, error) {
	if len(result.Densified) == 0 {
		return nil, lookup.ErrNoPriceData
	}

	start := result.Densified[0].TimestampMs
	end := result.Densified[len(result.Densified)-1].TimestampMs

	floor, err := seriesStats(SeriesFloor, 0, domain.ObservationsToPoints(floors), start, end)
	if err != nil {
		return nil, fmt.Errorf("floor series: %w", err)
	}

	summary := &Summary{
		GeneratedAt:     g.now(),
		Collection:      collection,
		Fingerprint:     fingerprint,
		Observations:    len(floors),
		DensifiedPoints: len(result.Densified),
		StartMs:         start,
		EndMs:           end,
		Floor:           floor,
		Twaps:           make([]SeriesStats, 0, len(result.Twaps)),
	}

	for _, s := range result.Twaps {
		stats, err := seriesStats(TwapSeriesName(s.WindowHours), s.WindowHours, s.Points, start, end)
		if err != nil {
			return nil, fmt.Errorf("%dh series: %w", s.WindowHours, err)
		}
		summary.Twaps = append(summary.Twaps, stats)
	}

	return summary, nil
}

func seriesStats(name string, hours int, points []domain.PricePoint, start, end int64) (SeriesStats, error) {
	minPrice, maxPrice, err := lookup.Bounds(points, start, end)
	if err != nil {
		return SeriesStats{}, err
	}
	last, err := lookup.PriceAt(end, points)
	if err != nil {
		return SeriesStats{}, err
	}
	return SeriesStats{
		Name:        name,
		WindowHours: hours,
		Points:      len(points),
		Last:        last,
		Min:         minPrice,
		Max:         maxPrice,
	}, nil
}
