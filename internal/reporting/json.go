package reporting

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"nft-floor-twap/internal/domain"
	"nft-floor-twap/internal/twap"
)

// SeriesFloor is the chart series name of the raw floor observations.
const SeriesFloor = "floor"

// TwapSeriesName returns the chart series name for a window, e.g. "twap4".
func TwapSeriesName(hours int) string {
	return fmt.Sprintf("twap%d", hours)
}

// Chart is the JSON document consumed by the chart front end.
type Chart struct {
	Collection string        `json:"collection"`
	Series     []ChartSeries `json:"series"`
}

// ChartSeries is one named time series in columnar form.
type ChartSeries struct {
	Name    string       `json:"name"`
	Columns []string     `json:"columns"`
	Points  []ChartPoint `json:"points"`
}

// ChartPoint encodes as a [time_ms, "price"] pair.
type ChartPoint struct {
	TimestampMs int64
	Price       decimal.Decimal
}

// MarshalJSON implements json.Marshaler.
func (p ChartPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.TimestampMs, p.Price.String()})
}

// BuildChart assembles the floor series followed by one series per window.
func BuildChart(collection string, floors []domain.Observation, result *twap.Result) *Chart {
	chart := &Chart{
		Collection: collection,
		Series:     make([]ChartSeries, 0, len(result.Twaps)+1),
	}
	chart.Series = append(chart.Series, chartSeries(SeriesFloor, domain.ObservationsToPoints(floors)))
	for _, s := range result.Twaps {
		chart.Series = append(chart.Series, chartSeries(TwapSeriesName(s.WindowHours), s.Points))
	}
	return chart
}

// RenderJSON renders the chart document as indented JSON.
func RenderJSON(collection string, floors []domain.Observation, result *twap.Result) ([]byte, error) {
	data, err := json.MarshalIndent(BuildChart(collection, floors, result), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal chart: %w", err)
	}
	return append(data, '\n'), nil
}

func chartSeries(name string, points []domain.PricePoint) ChartSeries {
	out := ChartSeries{
		Name:    name,
		Columns: []string{"time", name},
		Points:  make([]ChartPoint, len(points)),
	}
	for i, p := range points {
		out.Points[i] = ChartPoint{TimestampMs: p.TimestampMs, Price: p.Price}
	}
	return out
}
