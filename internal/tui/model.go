package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mrjaywilson/QOE-Core/internal/playback"
	"github.com/mrjaywilson/QOE-Core/internal/qoe"
)

// Replay speed bounds.
const (
	DefaultInterval = 250 * time.Millisecond
	minInterval     = 25 * time.Millisecond
	maxInterval     = 2 * time.Second
)

// =============================================================================
// Messages
// =============================================================================

// TickMsg advances the replay by one segment.
type TickMsg time.Time

// QuitMsg signals the TUI should exit.
type QuitMsg struct{}

// =============================================================================
// Model
// =============================================================================

// Config holds TUI configuration.
type Config struct {
	Strategy    string
	TraceSource string
	Session     playback.SessionConfig
	Samples     []float64
	Records     []playback.Record
	Interval    time.Duration // time per segment, 0 = DefaultInterval
}

// Model represents the TUI state.
type Model struct {
	strategy    string
	traceSource string
	session     playback.SessionConfig
	samples     []float64
	records     []playback.Record

	// pos is the number of records shown so far
	pos      int
	paused   bool
	interval time.Duration

	width  int
	height int

	quitting bool
}

// New creates a new TUI model.
func New(cfg Config) Model {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return Model{
		strategy:    cfg.Strategy,
		traceSource: cfg.TraceSource,
		session:     cfg.Session,
		samples:     cfg.Samples,
		records:     cfg.Records,
		interval:    interval,
		width:       80,
		height:      24,
	}
}

// Run shows the replay in the alternate screen until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// =============================================================================
// Bubble Tea Interface
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case " ", "space", "p":
			m.paused = !m.paused
			if !m.paused {
				return m, m.tickCmd()
			}
			return m, nil
		case "right", "l":
			m.step(1)
			return m, nil
		case "left", "h":
			m.step(-1)
			return m, nil
		case "home", "g":
			m.pos = 0
			return m, nil
		case "end", "G":
			m.pos = len(m.records)
			return m, nil
		case "+", "=":
			m.interval = clampInterval(m.interval / 2)
			return m, nil
		case "-":
			m.interval = clampInterval(m.interval * 2)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TickMsg:
		if m.paused {
			return m, nil
		}
		m.step(1)
		return m, m.tickCmd()

	case QuitMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderReplay()
}

// =============================================================================
// Commands
// =============================================================================

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func clampInterval(d time.Duration) time.Duration {
	if d < minInterval {
		return minInterval
	}
	if d > maxInterval {
		return maxInterval
	}
	return d
}

func (m *Model) step(n int) {
	m.pos += n
	if m.pos < 0 {
		m.pos = 0
	}
	if m.pos > len(m.records) {
		m.pos = len(m.records)
	}
}

// =============================================================================
// Accessors
// =============================================================================

// Position returns the number of segments replayed so far.
func (m Model) Position() int {
	return m.pos
}

// Done reports whether every segment has been replayed.
func (m Model) Done() bool {
	return m.pos >= len(m.records)
}

// Paused reports whether the replay is paused.
func (m Model) Paused() bool {
	return m.paused
}

// Interval returns the current time per segment.
func (m Model) Interval() time.Duration {
	return m.interval
}

// Current returns the most recently replayed record.
func (m Model) Current() (playback.Record, bool) {
	if m.pos == 0 {
		return playback.Record{}, false
	}
	return m.records[m.pos-1], true
}

// Score returns the QoE of the segments replayed so far.
func (m Model) Score() (qoe.Score, bool) {
	score, err := qoe.Evaluate(m.records[:m.pos])
	if err != nil {
		return qoe.Score{}, false
	}
	return score, true
}
