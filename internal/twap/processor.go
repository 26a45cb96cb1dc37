package twap

import (
	"time"

	"go.uber.org/zap"

	"nft-floor-twap/internal/domain"
	"nft-floor-twap/internal/observability"
)

// Result holds the densified series and every TWAP series computed from it.
type Result struct {
	Densified []domain.PricePoint
	Twaps     []domain.TwapSeries // ascending by WindowHours
}

// Twap returns the series for the given window, or nil if it was not computed.
func (r *Result) Twap(hours int) []domain.PricePoint {
	for _, s := range r.Twaps {
		if s.WindowHours == hours {
			return s.Points
		}
	}
	return nil
}

// Processor runs Resample followed by RollingAverage.
type Processor struct {
	windowHours []int
	logger      *zap.Logger
	metrics     *observability.Metrics
}

// ProcessorOption configures Processor.
type ProcessorOption func(*Processor)

// WithWindowHours sets the TWAP windows in hours.
func WithWindowHours(hours []int) ProcessorOption {
	return func(p *Processor) {
		p.windowHours = append([]int(nil), hours...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) ProcessorOption {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics sets where stage and per-window metrics are recorded.
func WithMetrics(m *observability.Metrics) ProcessorOption {
	return func(p *Processor) {
		if m != nil {
			p.metrics = m
		}
	}
}

// NewProcessor creates a Processor using domain.DefaultWindowHours unless overridden.
func NewProcessor(opts ...ProcessorOption) *Processor {
	p := &Processor{
		windowHours: append([]int(nil), domain.DefaultWindowHours...),
		logger:      zap.NewNop(),
		metrics:     observability.DefaultMetrics,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WindowHours returns the configured windows.
func (p *Processor) WindowHours() []int {
	return append([]int(nil), p.windowHours...)
}

// Process densifies observations and computes all configured TWAP series.
func (p *Processor) Process(observations []domain.Observation) (*Result, error) {
	windows, err := normalizeWindows(p.windowHours)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	densified, err := Resample(observations)
	if err != nil {
		p.metrics.RecordStage("resample", "error", time.Since(start).Seconds())
		return nil, err
	}
	p.metrics.RecordStage("resample", "success", time.Since(start).Seconds())
	p.metrics.RecordDensifiedPoints(len(densified))

	p.logger.Debug("resampled observations",
		zap.Int("observations", len(observations)),
		zap.Int("densified", len(densified)),
	)

	start = time.Now()
	twaps, err := rollingAverage(densified, windows, func(hours int, elapsed time.Duration) {
		p.metrics.RecordWindow(hours, elapsed.Seconds())
	})
	if err != nil {
		p.metrics.RecordStage("rolling_average", "error", time.Since(start).Seconds())
		return nil, err
	}
	p.metrics.RecordStage("rolling_average", "success", time.Since(start).Seconds())

	result := &Result{
		Densified: densified,
		Twaps:     make([]domain.TwapSeries, 0, len(windows)),
	}
	for _, h := range windows {
		result.Twaps = append(result.Twaps, domain.TwapSeries{WindowHours: h, Points: twaps[h]})
	}

	p.logger.Debug("computed twap series",
		zap.Ints("window_hours", windows),
		zap.Duration("elapsed", time.Since(start)),
	)

	return result, nil
}
