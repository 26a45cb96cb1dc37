// Package fingerprint computes deterministic hashes of computed series.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/mr-tron/base58"

	"nft-floor-twap/internal/domain"
	"nft-floor-twap/internal/twap"
)

// Series computes SHA256 over "timestamp_ms|price\n" lines.
// Prices use their canonical decimal string so equal values at different
// internal exponents hash the same.
// Returns hex-encoded hash (64 characters).
func Series(points []domain.PricePoint) string {
	h := sha256.New()
	writePoints(h, points)
	return hex.EncodeToString(h.Sum(nil))
}

// Result computes SHA256 over the densified series followed by every TWAP
// series, each prefixed by its label.
func Result(result *twap.Result) string {
	h := sha256.New()
	fmt.Fprintf(h, "densified:%d\n", len(result.Densified))
	writePoints(h, result.Densified)
	for _, s := range result.Twaps {
		fmt.Fprintf(h, "twap%dh:%d\n", s.WindowHours, len(s.Points))
		writePoints(h, s.Points)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Short returns a base58 form of the first 8 bytes of a hex fingerprint,
// for logs and report headers. Returns "" for invalid input.
func Short(fp string) string {
	raw, err := hex.DecodeString(fp)
	if err != nil || len(raw) < 8 {
		return ""
	}
	return base58.Encode(raw[:8])
}

func writePoints(h hash.Hash, points []domain.PricePoint) {
	for _, p := range points {
		fmt.Fprintf(h, "%d|%s\n", p.TimestampMs, p.Price.String())
	}
}
