package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mrjaywilson/QOE-Core/internal/playback"
)

// timelineMarks are drawn per segment, newest on the right.
const (
	markStall  = '▼'
	markSwitch = '↕'
	markPlay   = '·'
)

// renderReplay renders the whole dashboard.
func (m Model) renderReplay() string {
	sections := []string{
		m.renderHeader(),
		m.renderProgress(),
		m.renderSegment(),
		m.renderTimeline(),
		m.renderScore(),
		m.renderFooter(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// =============================================================================
// Header
// =============================================================================

func (m Model) renderHeader() string {
	state := "playing"
	switch {
	case m.Done():
		state = "finished"
	case m.paused:
		state = "paused"
	}

	header := fmt.Sprintf(" qoe-sim │ strategy: %s │ trace: %s │ %s ", m.strategy, m.traceSource, state)
	return headerStyle.Width(m.width).Render(header)
}

// =============================================================================
// Progress
// =============================================================================

func (m Model) renderProgress() string {
	total := len(m.records)
	progress := 1.0
	if total > 0 {
		progress = float64(m.pos) / float64(total)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		sectionHeaderStyle.Render("Session"),
		RenderProgressBar(progress, m.barWidth()),
		mutedStyle.Render(fmt.Sprintf("segment %d/%d, %.2fs per segment", m.pos, total, m.session.SegmentDuration)),
	)
	return boxStyle.Width(m.width - 2).Render(content)
}

// =============================================================================
// Current Segment
// =============================================================================

func (m Model) renderSegment() string {
	r, ok := m.Current()
	if !ok {
		return boxStyle.Width(m.width - 2).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				sectionHeaderStyle.Render("Segment"),
				dimStyle.Render("waiting for first segment"),
			),
		)
	}

	bandwidth := "n/a"
	if r.Timestamp < len(m.samples) {
		bandwidth = fmt.Sprintf("%.0f kbps", m.samples[r.Timestamp])
	}

	capacity := m.session.BufferCapacity
	fill := 0.0
	if capacity > 0 {
		fill = r.BufferLevelSecs / capacity
	}

	status := statusOK.Render("● playing")
	if r.Stalled {
		status = statusError.Render("● stalled")
	}
	if r.Switch {
		status += "  " + statusInfo.Render("↕ switch")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		sectionHeaderStyle.Render("Segment"),
		RenderKeyValue("Time", fmt.Sprintf("%ds", r.Timestamp)),
		RenderKeyValue("Bandwidth", bandwidth),
		RenderKeyValue("Bitrate", fmt.Sprintf("%d kbps", r.BitrateKbps)),
		RenderKeyValue("Buffer", fmt.Sprintf("%.2f / %.2f s", r.BufferLevelSecs, capacity)),
		RenderBar(fill, m.barWidth(), BufferStyle(r.BufferLevelSecs, m.session.StallThreshold)),
		status,
	)
	return boxStyle.Width(m.width - 2).Render(content)
}

// =============================================================================
// Timeline
// =============================================================================

func (m Model) renderTimeline() string {
	width := m.barWidth()
	start := 0
	if m.pos > width {
		start = m.pos - width
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		sectionHeaderStyle.Render("Timeline"),
		timeline(m.records[start:m.pos]),
		dimStyle.Render(fmt.Sprintf("%c stall  %c switch  %c segment", markStall, markSwitch, markPlay)),
	)
	return boxStyle.Width(m.width - 2).Render(content)
}

// timeline renders one mark per record.
func timeline(records []playback.Record) string {
	var b strings.Builder
	for _, r := range records {
		switch {
		case r.Stalled:
			b.WriteString(statusError.Render(string(markStall)))
		case r.Switch:
			b.WriteString(statusInfo.Render(string(markSwitch)))
		default:
			b.WriteString(dimStyle.Render(string(markPlay)))
		}
	}
	return b.String()
}

// =============================================================================
// Score
// =============================================================================

func (m Model) renderScore() string {
	score, ok := m.Score()
	if !ok {
		return ""
	}

	label := "QoE so far"
	if m.Done() {
		label = "Final QoE"
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		sectionHeaderStyle.Render(label),
		lipgloss.JoinHorizontal(lipgloss.Left,
			labelStyle.Render("Score:"),
			ScoreStyle(score.FinalScore).Render(fmt.Sprintf("%.0f", score.FinalScore)),
		),
		RenderKeyValue("Average Bitrate", fmt.Sprintf("%.1f kbps", score.AverageBitrate)),
		RenderKeyValue("Stalls", fmt.Sprintf("%d (%.1f%%)", score.StallCount, score.StallRatio*100)),
		RenderKeyValue("Switches", fmt.Sprintf("%d (%.1f%%)", score.SwitchCount, score.SwitchRatio*100)),
	)
	return boxStyle.Width(m.width - 2).Render(content)
}

// =============================================================================
// Footer
// =============================================================================

func (m Model) renderFooter() string {
	shortcuts := []string{
		"q: quit",
		"space: pause",
		"←/→: step",
		"g/G: start/end",
		"+/-: speed",
	}
	return footerStyle.Render(dimStyle.Render(strings.Join(shortcuts, " │ ")))
}

func (m Model) barWidth() int {
	w := m.width - 12
	if w < 20 {
		w = 20
	}
	return w
}
