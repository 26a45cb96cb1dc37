package twap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"nft-floor-twap/internal/domain"
)

// weiExponent is the power of ten floor values are scaled by at the source.
const weiExponent = 18

// Layouts accepted for record timestamps, tried in order. Zone-less layouts
// are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

var (
	errEmptyField    = errors.New("empty field")
	errBadTimestamp  = errors.New("unrecognized timestamp format")
	errNegativeValue = errors.New("negative value")
	errFractionalWei = errors.New("fractional wei value")
)

// ParseRecords converts source records into human-scaled observations.
// This is the only place the 10^18 scaling is removed.
// Records are not re-sorted; ordering is validated by Resample.
func ParseRecords(records []domain.FloorRecord) ([]domain.Observation, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records", ErrInvalidInput)
	}

	obs := make([]domain.Observation, len(records))
	for i, r := range records {
		ts, err := ParseTimestamp(r.Timestamp)
		if err != nil {
			return nil, &RecordError{Index: i, Field: "timestamp", Err: err}
		}
		value, err := ParseWei(r.Value)
		if err != nil {
			return nil, &RecordError{Index: i, Field: "value", Err: err}
		}
		obs[i] = domain.Observation{TimestampMs: ts, Value: value}
	}
	return obs, nil
}

// ParseTimestamp parses an ISO-8601 or epoch string into Unix milliseconds.
// All-digit strings of 13 or more digits are epoch milliseconds, shorter
// ones epoch seconds.
func ParseTimestamp(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errEmptyField
	}

	if isDigits(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, err
		}
		if len(s) >= 13 {
			return n, nil
		}
		return n * 1000, nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", errBadTimestamp, s)
}

// ParseWei parses a non-negative integer wei string and returns the
// human-scaled value. Spellings such as "100.0" or "1e3" are accepted as long
// as they denote a whole number of wei.
func ParseWei(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, errEmptyField
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", errNegativeValue, s)
	}
	if !d.Equal(d.Truncate(0)) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", errFractionalWei, s)
	}
	return d.Shift(-weiExponent), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
