package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mrjaywilson/QOE-Core/internal/playback"
	"github.com/mrjaywilson/QOE-Core/internal/qoe"
)

const (
	ruleHeavy = "═══════════════════════════════════════════════════════════════════════════════\n"
	ruleLight = "───────────────────────────────────────────────────────────────────────────────\n"
)

// SummaryConfig holds the run context printed alongside the score.
type SummaryConfig struct {
	// Strategy is the strategy name (and parameters) used for the run
	Strategy string

	// TraceSource describes where the bandwidth samples came from
	TraceSource string

	// Session is the buffer model configuration
	Session playback.SessionConfig

	// Outputs lists files written during the run
	Outputs []string
}

// FormatSummary formats the score and distribution statistics for display at exit.
// summary may be nil.
func FormatSummary(score qoe.Score, summary *qoe.Summary, cfg SummaryConfig) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(ruleHeavy)
	b.WriteString("                           qoe-sim Session Summary\n")
	b.WriteString(ruleHeavy + "\n")

	fmt.Fprintf(&b, "Strategy:               %s\n", cfg.Strategy)
	if cfg.TraceSource != "" {
		fmt.Fprintf(&b, "Trace:                  %s\n", cfg.TraceSource)
	}
	fmt.Fprintf(&b, "Segment Duration:       %.2f s\n", cfg.Session.SegmentDuration)
	fmt.Fprintf(&b, "Stall Threshold:        %.2f s\n", cfg.Session.StallThreshold)
	fmt.Fprintf(&b, "Buffer Capacity:        %.2f s\n\n", cfg.Session.BufferCapacity)

	writeSection(&b, "Quality of Experience")
	fmt.Fprintf(&b, "  Final Score:          %.0f\n", score.FinalScore)
	fmt.Fprintf(&b, "  Average Bitrate:      %.1f kbps\n", score.AverageBitrate)
	fmt.Fprintf(&b, "  Stalls:               %d (%s)\n", score.StallCount, FormatPercent(score.StallRatio))
	fmt.Fprintf(&b, "  Switches:             %d (%s)\n\n", score.SwitchCount, FormatPercent(score.SwitchRatio))

	if summary != nil {
		writeSection(&b, "Buffer Level")
		fmt.Fprintf(&b, "  Min / Mean / Max:     %.2f / %.2f / %.2f s\n", summary.BufferMin, summary.BufferMean, summary.BufferMax)
		fmt.Fprintf(&b, "  P50 (median):         %.2f s\n", summary.BufferP50)
		fmt.Fprintf(&b, "  P95:                  %.2f s\n", summary.BufferP95)
		fmt.Fprintf(&b, "  P99:                  %.2f s\n\n", summary.BufferP99)

		writeSection(&b, "Bitrate Distribution")
		for _, br := range summary.Bitrates() {
			n := summary.BitrateShare[br]
			share := float64(n) / float64(summary.Segments)
			fmt.Fprintf(&b, "  %5d kbps  %-30s %4d (%s)\n", br, bar(share, 30), n, FormatPercent(share))
		}
		b.WriteString("\n")

		if summary.StallEvents > 0 {
			writeSection(&b, "Rebuffering")
			fmt.Fprintf(&b, "  Stall Events:         %d\n", summary.StallEvents)
			fmt.Fprintf(&b, "  Longest Stall:        %d segments\n", summary.LongestStallRun)
			fmt.Fprintf(&b, "  Time Stalled:         %.2f s\n\n", summary.StallSeconds)
		}
	}

	for _, out := range cfg.Outputs {
		fmt.Fprintf(&b, "Wrote: %s\n", out)
	}

	b.WriteString(ruleHeavy)
	return b.String()
}

// ComparisonRow is one line of a multi-session comparison table.
type ComparisonRow struct {
	Name  string
	Score qoe.Score
	Err   error
}

// FormatComparison renders sessions side by side, in the given order.
func FormatComparison(rows []ComparisonRow) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(ruleHeavy)
	b.WriteString("                          qoe-sim Strategy Comparison\n")
	b.WriteString(ruleHeavy + "\n")

	fmt.Fprintf(&b, "  %-24s %8s %12s %8s %9s\n", "Session", "Score", "Avg kbps", "Stalls", "Switches")
	b.WriteString("  " + strings.Repeat("─", 65) + "\n")
	for _, row := range rows {
		if row.Err != nil {
			fmt.Fprintf(&b, "  %-24s error: %v\n", row.Name, row.Err)
			continue
		}
		fmt.Fprintf(&b, "  %-24s %8.0f %12.1f %8d %9d\n",
			row.Name,
			row.Score.FinalScore,
			row.Score.AverageBitrate,
			row.Score.StallCount,
			row.Score.SwitchCount,
		)
	}
	b.WriteString("\n")
	b.WriteString(ruleHeavy)
	return b.String()
}

// WriteRecordLines prints one console line per record.
func WriteRecordLines(w io.Writer, records []playback.Record) error {
	for _, r := range records {
		if _, err := fmt.Fprintln(w, FormatRecord(r)); err != nil {
			return err
		}
	}
	return nil
}

// FormatRecord formats a record for console output.
func FormatRecord(r playback.Record) string {
	return fmt.Sprintf("Time: %ds, Bitrate: %d kbps, Buffer: %.2f s, Stalled: %t, Switch: %t",
		r.Timestamp, r.BitrateKbps, r.BufferLevelSecs, r.Stalled, r.Switch)
}

// FormatPercent formats a ratio as a percentage with one decimal.
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

func writeSection(b *strings.Builder, title string) {
	b.WriteString(ruleLight)
	pad := (len([]rune(ruleLight)) - 1 - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	b.WriteString(strings.Repeat(" ", pad) + title + "\n")
	b.WriteString(ruleLight + "\n")
}

// bar renders ratio as a fixed-width bar of filled and empty cells.
func bar(ratio float64, width int) string {
	filled := int(ratio*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
