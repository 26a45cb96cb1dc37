package twap

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nft-floor-twap/internal/domain"
)

func obs(ts int64, v int64) domain.Observation {
	return domain.Observation{TimestampMs: ts, Value: decimal.NewFromInt(v)}
}

func timestamps(points []domain.PricePoint) []int64 {
	out := make([]int64, len(points))
	for i, p := range points {
		out[i] = p.TimestampMs
	}
	return out
}

func TestResample_TenMinuteGap(t *testing.T) {
	densified, err := Resample([]domain.Observation{obs(0, 100), obs(600000, 200)})
	require.NoError(t, err)

	require.Len(t, densified, 3)
	assert.Equal(t, []int64{0, 300000, 600000}, timestamps(densified))
	assert.True(t, densified[0].Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, densified[1].Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, densified[2].Price.Equal(decimal.NewFromInt(200)))
}

func TestResample_SingleObservation(t *testing.T) {
	densified, err := Resample([]domain.Observation{obs(1000, 7)})
	require.NoError(t, err)

	require.Len(t, densified, 1)
	assert.Equal(t, int64(1000), densified[0].TimestampMs)
	assert.True(t, densified[0].Price.Equal(decimal.NewFromInt(7)))
}

func TestResample_ExactStepMultiple(t *testing.T) {
	// 15 minute gap: 0, 5, 10 from the first segment, then the final point.
	densified, err := Resample([]domain.Observation{obs(0, 1), obs(900000, 2)})
	require.NoError(t, err)

	assert.Equal(t, []int64{0, 300000, 600000, 900000}, timestamps(densified))
}

func TestResample_SubStepGap(t *testing.T) {
	// Gap of 2 minutes: the segment still emits its first point only.
	densified, err := Resample([]domain.Observation{obs(0, 1), obs(120000, 2), obs(720000, 3)})
	require.NoError(t, err)

	assert.Equal(t, []int64{0, 120000, 420000, 720000}, timestamps(densified))
	assert.True(t, densified[0].Price.Equal(decimal.NewFromInt(1)))
	assert.True(t, densified[1].Price.Equal(decimal.NewFromInt(2)))
	assert.True(t, densified[2].Price.Equal(decimal.NewFromInt(2)))
	assert.True(t, densified[3].Price.Equal(decimal.NewFromInt(3)))
}

func TestResample_EqualTimestamps(t *testing.T) {
	densified, err := Resample([]domain.Observation{obs(0, 1), obs(0, 2), obs(300000, 3)})
	require.NoError(t, err)

	assert.Equal(t, []int64{0, 0, 300000}, timestamps(densified))
	assert.True(t, densified[1].Price.Equal(decimal.NewFromInt(2)))
}

func TestResample_Empty(t *testing.T) {
	_, err := Resample(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Resample([]domain.Observation{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestResample_Unsorted(t *testing.T) {
	_, err := Resample([]domain.Observation{obs(600000, 1), obs(0, 2)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestResample_ForwardFillStepProperty(t *testing.T) {
	input := []domain.Observation{
		obs(0, 10),
		obs(3*domain.StepMs+17000, 20),
		obs(4*domain.StepMs, 30),
		obs(9*domain.StepMs+1, 40),
		obs(30*domain.StepMs, 50),
	}

	densified, err := Resample(input)
	require.NoError(t, err)

	for i := 0; i < len(input)-1; i++ {
		t0, t1 := input[i].TimestampMs, input[i+1].TimestampMs
		for _, p := range densified {
			if p.TimestampMs >= t0 && p.TimestampMs < t1 {
				assert.True(t, p.Price.Equal(input[i].Value),
					"point at %d should carry %s, got %s", p.TimestampMs, input[i].Value, p.Price)
			}
		}
	}

	// Output is non-decreasing.
	for i := 1; i < len(densified); i++ {
		assert.LessOrEqual(t, densified[i-1].TimestampMs, densified[i].TimestampMs)
	}

	// The last observation contributes exactly one point at its own timestamp.
	lastPoint := densified[len(densified)-1]
	assert.Equal(t, int64(30*domain.StepMs), lastPoint.TimestampMs)
	assert.True(t, lastPoint.Price.Equal(decimal.NewFromInt(50)))
}

func TestResample_SpanTooWide(t *testing.T) {
	tests := []struct {
		name         string
		observations []domain.Observation
	}{
		{"beyond int64 range", []domain.Observation{obs(math.MinInt64/2, 1), obs(math.MaxInt64/2, 2)}},
		{"decades of steps", []domain.Observation{obs(0, 1), obs(1e15, 2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resample(tt.observations)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestResample_AtPointLimit(t *testing.T) {
	last := int64(MaxDensifiedPoints-2) * domain.StepMs
	densified, err := Resample([]domain.Observation{obs(0, 1), obs(last, 2)})
	require.NoError(t, err)
	assert.Len(t, densified, MaxDensifiedPoints-1)

	_, err = Resample([]domain.Observation{obs(0, 1), obs(last+domain.StepMs, 2)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestResample_NearMaxTimestamp(t *testing.T) {
	start := int64(math.MaxInt64) - 2*domain.StepMs - 1
	densified, err := Resample([]domain.Observation{obs(start, 1), obs(math.MaxInt64, 2)})
	require.NoError(t, err)

	assert.Equal(t, []int64{start, start + domain.StepMs, start + 2*domain.StepMs, math.MaxInt64}, timestamps(densified))
	assert.True(t, densified[2].Price.Equal(decimal.NewFromInt(1)))
	assert.True(t, densified[3].Price.Equal(decimal.NewFromInt(2)))
}
