package twap

import (
	"fmt"

	"nft-floor-twap/internal/domain"
)

// MaxDensifiedPoints bounds the grid size: about 19 years of 5-minute steps.
const MaxDensifiedPoints = 2_000_000

// Resample densifies observations onto a 5-minute grid by forward-filling.
//
// For each observation except the last, a point is emitted at its own
// timestamp and then every StepMs while the emitted timestamp is strictly
// before the next observation. The first point of a segment is always
// emitted, even when the gap to the next observation is shorter than one
// step. The last observation contributes exactly one point.
//
// Observations must be non-empty and non-decreasing by timestamp, and the
// output may hold at most MaxDensifiedPoints points.
func Resample(observations []domain.Observation) ([]domain.PricePoint, error) {
	if len(observations) == 0 {
		return nil, fmt.Errorf("%w: no observations", ErrInvalidInput)
	}
	for i := 1; i < len(observations); i++ {
		if observations[i].TimestampMs < observations[i-1].TimestampMs {
			return nil, fmt.Errorf("%w: observation %d at %d precedes observation %d at %d",
				ErrInvalidInput, i, observations[i].TimestampMs, i-1, observations[i-1].TimestampMs)
		}
	}

	first := observations[0].TimestampMs
	last := observations[len(observations)-1].TimestampMs
	// Unsigned so spans wider than math.MaxInt64 do not wrap.
	steps := (uint64(last) - uint64(first)) / uint64(domain.StepMs)
	if steps+uint64(len(observations)) > MaxDensifiedPoints {
		return nil, fmt.Errorf("%w: span %d..%d needs more than %d points",
			ErrInvalidInput, first, last, MaxDensifiedPoints)
	}
	densified := make([]domain.PricePoint, 0, int(steps)+len(observations))

	for i, o := range observations {
		if i == len(observations)-1 {
			densified = append(densified, domain.PricePoint{TimestampMs: o.TimestampMs, Price: o.Value})
			break
		}
		next := observations[i+1].TimestampMs
		ts := o.TimestampMs
		for {
			densified = append(densified, domain.PricePoint{TimestampMs: ts, Price: o.Value})
			// Same as ts+StepMs >= next without overflowing near math.MaxInt64.
			if next-ts <= domain.StepMs {
				break
			}
			ts += domain.StepMs
		}
	}

	return densified, nil
}
