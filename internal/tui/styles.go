// Package tui replays a simulated playback session in the terminal.
//
// The TUI uses Bubble Tea for the application framework and Lipgloss for styling.
// It steps through the session records one segment per tick and shows:
//   - the selected bitrate against the measured bandwidth
//   - the buffer level against its capacity
//   - stall and switch markers on a timeline
//   - the QoE score of the segments played so far
package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorPrimary   = lipgloss.Color("#7C3AED") // Purple
	colorSecondary = lipgloss.Color("#06B6D4") // Cyan

	colorSuccess = lipgloss.Color("#10B981") // Green
	colorWarning = lipgloss.Color("#F59E0B") // Amber
	colorError   = lipgloss.Color("#EF4444") // Red
	colorInfo    = lipgloss.Color("#3B82F6") // Blue

	colorText      = lipgloss.Color("#E5E7EB")
	colorTextMuted = lipgloss.Color("#9CA3AF")
	colorTextDim   = lipgloss.Color("#6B7280")
	colorBorder    = lipgloss.Color("#374151")
)

// =============================================================================
// Styles
// =============================================================================

var (
	mutedStyle = lipgloss.NewStyle().Foreground(colorTextMuted)
	dimStyle   = lipgloss.NewStyle().Foreground(colorTextDim)

	statusOK      = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	statusWarning = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	statusError   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	statusInfo    = lipgloss.NewStyle().Foreground(colorInfo).Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorPrimary).
			Bold(true).
			Padding(0, 1).
			MarginBottom(1)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(colorSecondary).
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(colorBorder)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			MarginTop(1)

	valueStyle     = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	valueGoodStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	valueWarnStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	valueBadStyle  = lipgloss.NewStyle().Foreground(colorError).Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Width(20)

	barFilledStyle = lipgloss.NewStyle().Foreground(colorPrimary)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(colorBorder)
	barStallStyle  = lipgloss.NewStyle().Foreground(colorError)
)

// =============================================================================
// Indicators
// =============================================================================

// ScoreStyle returns a style for a QoE score.
func ScoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 70:
		return valueGoodStyle
	case score >= 40:
		return valueWarnStyle
	default:
		return valueBadStyle
	}
}

// BufferStyle returns the bar style for a buffer level relative to the stall threshold.
func BufferStyle(level, threshold float64) lipgloss.Style {
	switch {
	case level < threshold:
		return barStallStyle
	case level < 2*threshold:
		return valueWarnStyle
	default:
		return barFilledStyle
	}
}

// =============================================================================
// Helper Functions
// =============================================================================

// RenderKeyValue renders a label-value pair.
func RenderKeyValue(label string, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Left,
		labelStyle.Render(label+":"),
		valueStyle.Render(value),
	)
}

// RenderBar renders ratio in [0, 1] as a bar of width cells using fill for
// the filled part.
func RenderBar(ratio float64, width int, fill lipgloss.Style) string {
	if width < 10 {
		width = 10
	}

	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	return fill.Render(repeatChar('█', filled)) + barEmptyStyle.Render(repeatChar('░', width-filled))
}

// RenderProgressBar renders a bar followed by a percentage.
func RenderProgressBar(progress float64, width int) string {
	return RenderBar(progress, width, barFilledStyle) + valueStyle.Render(fmt.Sprintf(" %3.0f%%", progress*100))
}

func repeatChar(char rune, count int) string {
	if count <= 0 {
		return ""
	}
	result := make([]rune, count)
	for i := range result {
		result[i] = char
	}
	return string(result)
}
