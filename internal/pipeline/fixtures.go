package pipeline

import (
	"strconv"

	"github.com/shopspring/decimal"

	"nft-floor-twap/internal/domain"
	"nft-floor-twap/internal/source/memory"
)

// DemoCollection is the collection slug seeded by LoadFixtures.
const DemoCollection = "demo-apes"

// demoStartMs is 2024-01-01 00:00:00 UTC.
const demoStartMs int64 = 1704067200000

// LoadFixtures populates store with a deterministic demo collection: 48
// irregularly spaced floor observations over about 19 hours, in wei.
func LoadFixtures(store *memory.FloorStore) {
	store.Put(DemoCollection, demoRecords())
}

func demoRecords() []domain.FloorRecord {
	// Gaps cycle through sub-step, on-step and multi-hour spacing.
	gaps := []int64{
		7 * 60 * 1000,
		23 * 60 * 1000,
		60 * 60 * 1000,
		2 * 60 * 1000,
		45 * 60 * 1000,
		5 * 60 * 1000,
	}
	base := decimal.New(30, domain.PriceDecimals)  // 30 ETH
	tick := decimal.New(4, domain.PriceDecimals-1) // 0.4 ETH

	records := make([]domain.FloorRecord, 0, 48)
	ts := demoStartMs
	for i := 0; i < 48; i++ {
		wei := base.Add(tick.Mul(decimal.NewFromInt(int64(i%7 - 3))))
		records = append(records, domain.FloorRecord{
			Timestamp: strconv.FormatInt(ts, 10),
			Value:     wei.String(),
		})
		ts += gaps[i%len(gaps)]
	}
	return records
}
