// Package verification re-checks computed TWAP output against its defining
// properties: grid alignment, warm-up pass-through, mean correctness and
// determinism across runs.
package verification

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"nft-floor-twap/internal/domain"
	"nft-floor-twap/internal/fingerprint"
	"nft-floor-twap/internal/twap"
)

var (
	// ErrMisaligned is returned when a TWAP series does not share the densified grid.
	ErrMisaligned = errors.New("twap series not aligned with densified grid")

	// ErrNondeterministic is returned when two runs over the same input differ.
	ErrNondeterministic = errors.New("processing is not deterministic")
)

// Check names used in divergences and metrics.
const (
	CheckAlignment   = "alignment"
	CheckPassThrough = "pass_through"
	CheckMean        = "mean"
	CheckDeterminism = "determinism"
)

// Divergence describes a single point that violates a check.
type Divergence struct {
	Check       string // one of the Check* constants
	WindowHours int    // window of the offending series
	Index       int    // index within the series, -1 for whole-series checks
	Expected    string
	Actual      string
}

// Report contains the outcome of verifying one result.
type Report struct {
	Fingerprint string       // fingerprint of the first run
	Points      int          // densified points checked
	Divergences []Divergence // empty when every check passed
}

// Match reports whether all checks passed.
func (r *Report) Match() bool {
	return len(r.Divergences) == 0
}

// Alignment returns an error wrapping ErrMisaligned if any TWAP series has a
// different length or timestamp than the densified series.
func Alignment(result *twap.Result) error {
	for _, s := range result.Twaps {
		if len(s.Points) != len(result.Densified) {
			return fmt.Errorf("%w: window %dh has %d points, densified has %d",
				ErrMisaligned, s.WindowHours, len(s.Points), len(result.Densified))
		}
		for i, p := range s.Points {
			if p.TimestampMs != result.Densified[i].TimestampMs {
				return fmt.Errorf("%w: window %dh index %d at %d, densified at %d",
					ErrMisaligned, s.WindowHours, i, p.TimestampMs, result.Densified[i].TimestampMs)
			}
		}
	}
	return nil
}

// Properties re-derives every TWAP point by re-summing its window and
// returns the points that disagree. Series must be aligned.
func Properties(result *twap.Result) []Divergence {
	var divergences []Divergence
	for _, s := range result.Twaps {
		w := domain.WindowSamples(s.WindowHours)
		divisor := decimal.NewFromInt(int64(w))
		for i, p := range s.Points {
			check := CheckPassThrough
			want := result.Densified[i].Price
			if i >= w {
				check = CheckMean
				sum := decimal.Zero
				for _, d := range result.Densified[i-w : i] {
					sum = sum.Add(d.Price)
				}
				want, _ = sum.QuoRem(divisor, domain.PriceDecimals)
			}
			if !p.Price.Equal(want) {
				divergences = append(divergences, Divergence{
					Check:       check,
					WindowHours: s.WindowHours,
					Index:       i,
					Expected:    want.String(),
					Actual:      p.Price.String(),
				})
			}
		}
	}
	return divergences
}

// Verify runs the processor twice over observations and checks the first
// result's alignment, properties and equality with the second run.
func Verify(p *twap.Processor, observations []domain.Observation) (*Report, error) {
	first, err := p.Process(observations)
	if err != nil {
		return nil, fmt.Errorf("first run: %w", err)
	}
	second, err := p.Process(observations)
	if err != nil {
		return nil, fmt.Errorf("second run: %w", err)
	}

	report := &Report{
		Fingerprint: fingerprint.Result(first),
		Points:      len(first.Densified),
	}

	if err := Alignment(first); err != nil {
		report.Divergences = append(report.Divergences, Divergence{
			Check:  CheckAlignment,
			Index:  -1,
			Actual: err.Error(),
		})
		// Property checks index by position and need an aligned grid.
		return report, nil
	}

	report.Divergences = append(report.Divergences, Properties(first)...)

	if again := fingerprint.Result(second); again != report.Fingerprint {
		report.Divergences = append(report.Divergences, Divergence{
			Check:    CheckDeterminism,
			Index:    -1,
			Expected: report.Fingerprint,
			Actual:   again,
		})
	}

	return report, nil
}

// Err converts a failed report into an error naming the first divergence.
func (r *Report) Err() error {
	if r.Match() {
		return nil
	}
	d := r.Divergences[0]
	base := ErrMisaligned
	switch d.Check {
	case CheckDeterminism:
		base = ErrNondeterministic
	case CheckPassThrough, CheckMean:
		base = fmt.Errorf("%s check failed", d.Check)
	}
	return fmt.Errorf("%w: %d divergences, first at window %dh index %d (expected %s, got %s)",
		base, len(r.Divergences), d.WindowHours, d.Index, d.Expected, d.Actual)
}
