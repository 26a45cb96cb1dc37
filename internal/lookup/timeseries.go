package lookup

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"nft-floor-twap/internal/domain"
	"nft-floor-twap/internal/twap"
)

// ErrNoPriceData is returned when a lookup runs against an empty series or range.
var ErrNoPriceData = errors.New("no price data available")

// Bisect returns the index of the last point at or before target.
// If target precedes the first point, returns 0. Returns -1 for an empty slice.
// Points must be sorted ascending by timestamp.
func Bisect(points []domain.PricePoint, target int64) int {
	if len(points) == 0 {
		return -1
	}
	// First index strictly after target.
	i := sort.Search(len(points), func(i int) bool {
		return points[i].TimestampMs > target
	})
	if i == 0 {
		return 0
	}
	return i - 1
}

// PriceAt returns the price at or before target timestamp.
// If no point precedes target, returns the first available price.
func PriceAt(target int64, points []domain.PricePoint) (decimal.Decimal, error) {
	idx := Bisect(points, target)
	if idx < 0 {
		return decimal.Decimal{}, ErrNoPriceData
	}
	return points[idx].Price, nil
}

// Crop returns the sub-slice of points within [start, end] (inclusive).
// The result shares the backing array with points.
func Crop(points []domain.PricePoint, start, end int64) []domain.PricePoint {
	lo := sort.Search(len(points), func(i int) bool {
		return points[i].TimestampMs >= start
	})
	hi := sort.Search(len(points), func(i int) bool {
		return points[i].TimestampMs > end
	})
	if lo >= hi {
		return nil
	}
	return points[lo:hi]
}

// Bounds returns the min and max price within [start, end].
// Returns ErrNoPriceData if the range holds no points.
func Bounds(points []domain.PricePoint, start, end int64) (minPrice, maxPrice decimal.Decimal, err error) {
	cropped := Crop(points, start, end)
	if len(cropped) == 0 {
		return decimal.Decimal{}, decimal.Decimal{}, ErrNoPriceData
	}

	minPrice, maxPrice = cropped[0].Price, cropped[0].Price
	for _, p := range cropped[1:] {
		if p.Price.LessThan(minPrice) {
			minPrice = p.Price
		}
		if p.Price.GreaterThan(maxPrice) {
			maxPrice = p.Price
		}
	}
	return minPrice, maxPrice, nil
}

// Reading holds the values shown at a cursor position.
type Reading struct {
	TimestampMs int64
	Floor       decimal.Decimal
	Twaps       map[int]decimal.Decimal // keyed by window hours
}

// Readout returns the floor price and every TWAP value at or before target.
func Readout(result *twap.Result, floors []domain.Observation, target int64) (*Reading, error) {
	floor, err := PriceAt(target, domain.ObservationsToPoints(floors))
	if err != nil {
		return nil, err
	}

	reading := &Reading{
		TimestampMs: target,
		Floor:       floor,
		Twaps:       make(map[int]decimal.Decimal, len(result.Twaps)),
	}
	for _, s := range result.Twaps {
		price, err := PriceAt(target, s.Points)
		if err != nil {
			return nil, err
		}
		reading.Twaps[s.WindowHours] = price
	}
	return reading, nil
}
