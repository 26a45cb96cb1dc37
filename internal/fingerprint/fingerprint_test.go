package fingerprint

import (
	"testing"

	"github.com/shopspring/decimal"

	"nft-floor-twap/internal/domain"
	"nft-floor-twap/internal/twap"
)

func points(prices ...string) []domain.PricePoint {
	out := make([]domain.PricePoint, len(prices))
	for i, p := range prices {
		out[i] = domain.PricePoint{TimestampMs: int64(i) * domain.StepMs, Price: decimal.RequireFromString(p)}
	}
	return out
}

func TestSeries_Length(t *testing.T) {
	got := Series(points("1", "2", "3"))
	if len(got) != 64 {
		t.Errorf("Series() length = %d, want 64", len(got))
	}
}

func TestSeries_Determinism(t *testing.T) {
	results := make([]string, 10)
	for i := 0; i < 10; i++ {
		results[i] = Series(points("100", "100.5", "99.25"))
	}

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Errorf("Determinism failed: results[%d]=%s != results[0]=%s", i, results[i], results[0])
		}
	}
}

func TestSeries_CanonicalPrices(t *testing.T) {
	// 50 and 50.000 are the same price.
	a := Series(points("50", "50"))
	b := Series(points("50.000", "50.0"))
	if a != b {
		t.Errorf("equal prices should hash the same: %s != %s", a, b)
	}
}

func TestSeries_DifferentInputs(t *testing.T) {
	base := Series(points("1", "2"))

	if base == Series(points("1", "3")) {
		t.Error("Different price should produce different hash")
	}
	if base == Series(points("1")) {
		t.Error("Different length should produce different hash")
	}

	shifted := points("1", "2")
	shifted[1].TimestampMs++
	if base == Series(shifted) {
		t.Error("Different timestamp should produce different hash")
	}
}

func TestResult_DistinguishesWindows(t *testing.T) {
	densified := points("1", "2")
	a := &twap.Result{Densified: densified, Twaps: []domain.TwapSeries{{WindowHours: 1, Points: densified}}}
	b := &twap.Result{Densified: densified, Twaps: []domain.TwapSeries{{WindowHours: 4, Points: densified}}}

	if Result(a) == Result(b) {
		t.Error("Different window labels should produce different hash")
	}
}

func TestShort(t *testing.T) {
	fp := Series(points("1"))
	short := Short(fp)
	if short == "" {
		t.Fatal("Short() returned empty string for valid fingerprint")
	}
	if Short(fp) != short {
		t.Error("Short() not deterministic")
	}
	if Short("not-hex") != "" {
		t.Error("Short() should reject invalid input")
	}
}
