package reporting

import (
	"fmt"
	"strings"
	"time"

	"nft-floor-twap/internal/fingerprint"
)

// RenderMarkdown renders summary as Markdown string.
func RenderMarkdown(s *Summary) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# Floor TWAP Report: %s\n\n", s.Collection))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", s.GeneratedAt.Format(time.RFC3339)))
	if s.Fingerprint != "" {
		sb.WriteString(fmt.Sprintf("Fingerprint: `%s` (%s)\n\n", fingerprint.Short(s.Fingerprint), s.Fingerprint))
	}

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Observations | %d |\n", s.Observations))
	sb.WriteString(fmt.Sprintf("| Densified Points | %d |\n", s.DensifiedPoints))
	sb.WriteString(fmt.Sprintf("| Range Start | %s |\n", formatMs(s.StartMs)))
	sb.WriteString(fmt.Sprintf("| Range End | %s |\n", formatMs(s.EndMs)))
	sb.WriteString("\n")

	// Series
	sb.WriteString("## Series\n\n")
	sb.WriteString("| Series | Window | Points | Last | Min | Max |\n")
	sb.WriteString("|--------|--------|--------|------|-----|-----|\n")
	writeSeriesRow(&sb, s.Floor)
	for _, t := range s.Twaps {
		writeSeriesRow(&sb, t)
	}
	sb.WriteString("\n")

	return sb.String()
}

func writeSeriesRow(sb *strings.Builder, s SeriesStats) {
	window := "-"
	if s.WindowHours > 0 {
		window = fmt.Sprintf("%dh", s.WindowHours)
	}
	sb.WriteString(fmt.Sprintf("| %s | %s | %d | %s | %s | %s |\n",
		s.Name, window, s.Points, s.Last.String(), s.Min.String(), s.Max.String()))
}

func formatMs(ms int64) string {
	return fmt.Sprintf("%s (%d)", time.UnixMilli(ms).UTC().Format(time.RFC3339), ms)
}
