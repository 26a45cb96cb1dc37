package reporting

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"nft-floor-twap/internal/twap"
)

// RenderCSV renders the densified grid and every TWAP series as CSV string.
// One row per grid point; TWAP columns follow result.Twaps order.
func RenderCSV(result *twap.Result) string {
	var sb strings.Builder

	// Header
	sb.WriteString("timestamp_ms,time,price")
	for _, s := range result.Twaps {
		sb.WriteString(fmt.Sprintf(",twap_%dh", s.WindowHours))
	}
	sb.WriteString("\n")

	// Rows
	for i, p := range result.Densified {
		sb.WriteString(strconv.FormatInt(p.TimestampMs, 10))
		sb.WriteString(",")
		sb.WriteString(time.UnixMilli(p.TimestampMs).UTC().Format(time.RFC3339))
		sb.WriteString(",")
		sb.WriteString(p.Price.String())
		for _, s := range result.Twaps {
			sb.WriteString(",")
			if i < len(s.Points) {
				sb.WriteString(s.Points[i].Price.String())
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
