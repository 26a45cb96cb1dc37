package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"nft-floor-twap/internal/domain"
)

// jsonRecord accepts timestamp and value as either JSON strings or numbers.
type jsonRecord struct {
	Timestamp json.RawMessage `json:"timestamp"`
	Value     json.RawMessage `json:"value"`
}

// DecodeRecords reads a JSON array of {timestamp, value} objects.
// Numbers are kept verbatim as strings so no precision is lost.
func DecodeRecords(r io.Reader) ([]domain.FloorRecord, error) {
	var raw []jsonRecord
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode floor records: %w", err)
	}

	records := make([]domain.FloorRecord, len(raw))
	for i, rr := range raw {
		records[i] = domain.FloorRecord{
			Timestamp: scalarString(rr.Timestamp),
			Value:     scalarString(rr.Value),
		}
	}
	return records, nil
}

// scalarString unquotes JSON strings and returns other scalars as written.
// Missing or null fields become "" and are rejected later by the parser.
func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}
