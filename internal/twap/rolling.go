package twap

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/edwingeng/deque/v2"
	"github.com/shopspring/decimal"

	"nft-floor-twap/internal/domain"
)

// RollingAverage computes a trailing simple moving average over densified
// for every window in windowHours. The window for h hours spans
// w = h*12 samples.
//
// For index i < w the output price is densified[i].Price unchanged.
// Otherwise it is the mean of densified[i-w..i-1], excluding the current
// point, truncated to PriceDecimals fractional digits.
//
// Windows are computed concurrently over the same input; every output shares
// the timestamp grid of densified. An empty windowHours selects
// domain.DefaultWindowHours.
func RollingAverage(densified []domain.PricePoint, windowHours []int) (map[int][]domain.PricePoint, error) {
	return rollingAverage(densified, windowHours, nil)
}

// rollingAverage is RollingAverage with an optional callback that receives
// each window's compute time from the goroutine that computed it.
func rollingAverage(densified []domain.PricePoint, windowHours []int, observe func(hours int, elapsed time.Duration)) (map[int][]domain.PricePoint, error) {
	if len(densified) == 0 {
		return nil, fmt.Errorf("%w: no densified points", ErrInvalidInput)
	}
	windows, err := normalizeWindows(windowHours)
	if err != nil {
		return nil, err
	}

	outputs := make([][]domain.PricePoint, len(windows))
	var wg sync.WaitGroup
	for i, h := range windows {
		wg.Add(1)
		go func(slot, hours int) {
			defer wg.Done()
			start := time.Now()
			outputs[slot] = slidingMean(densified, domain.WindowSamples(hours))
			if observe != nil {
				observe(hours, time.Since(start))
			}
		}(i, h)
	}
	wg.Wait()

	result := make(map[int][]domain.PricePoint, len(windows))
	for i, h := range windows {
		result[h] = outputs[i]
	}
	return result, nil
}

// slidingMean keeps the w most recent prices in a deque together with their
// running sum, so each output costs O(1) decimal operations.
func slidingMean(densified []domain.PricePoint, w int) []domain.PricePoint {
	out := make([]domain.PricePoint, len(densified))
	divisor := decimal.NewFromInt(int64(w))

	window := deque.NewDeque[decimal.Decimal]()
	sum := decimal.Zero

	for i, p := range densified {
		price := p.Price
		if window.Len() == w {
			price, _ = sum.QuoRem(divisor, domain.PriceDecimals)
		}
		out[i] = domain.PricePoint{TimestampMs: p.TimestampMs, Price: price}

		window.PushBack(p.Price)
		sum = sum.Add(p.Price)
		if window.Len() > w {
			sum = sum.Sub(window.PopFront())
		}
	}
	return out
}

// normalizeWindows validates window hours and returns them sorted ascending.
func normalizeWindows(windowHours []int) ([]int, error) {
	if len(windowHours) == 0 {
		windowHours = domain.DefaultWindowHours
	}

	seen := make(map[int]struct{}, len(windowHours))
	windows := make([]int, 0, len(windowHours))
	for _, h := range windowHours {
		if h <= 0 {
			return nil, fmt.Errorf("%w: window hours must be positive, got %d", ErrInvalidInput, h)
		}
		if _, dup := seen[h]; dup {
			return nil, fmt.Errorf("%w: duplicate window %dh", ErrInvalidInput, h)
		}
		seen[h] = struct{}{}
		windows = append(windows, h)
	}
	sort.Ints(windows)
	return windows, nil
}
