// Package tui provides the live session view.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/foqos/foqos/internal/engine"
	"github.com/foqos/foqos/internal/output"
)

// Styles for the watch view.
var (
	styleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7C3AED")).
			Padding(1, 3)

	styleState = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981"))

	styleBreakState = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F59E0B"))

	styleClock = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	styleHint = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#6B7280"))

	styleWarn = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))
)

// tickMsg is sent when the timer ticks.
type tickMsg time.Time

// WatchModel is the bubbletea model for the live session view.
type WatchModel struct {
	engine *engine.Engine
	snap   engine.Snapshot
	width  int
}

// NewWatchModel creates a watch model over the given engine.
func NewWatchModel(eng *engine.Engine) *WatchModel {
	return &WatchModel{
		engine: eng,
		snap:   eng.Snapshot(),
	}
}

// Init initializes the model.
func (m *WatchModel) Init() tea.Cmd {
	return m.tickCmd()
}

func (m *WatchModel) tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages.
func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		m.snap = m.engine.Snapshot()
		return m, m.tickCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "b":
			m.engine.ToggleBreak()
			m.snap = m.engine.Snapshot()
			return m, nil
		case "s":
			if err := m.engine.Stop(); err == nil {
				return m, tea.Quit
			}
			m.snap = m.engine.Snapshot()
			return m, nil
		}
	}
	return m, nil
}

// View renders the watch view.
func (m *WatchModel) View() string {
	var content strings.Builder

	switch m.snap.State {
	case engine.StateIdle:
		content.WriteString(styleHint.Render("No active session"))
		content.WriteString("\n\n")
		content.WriteString(styleHint.Render("press q to quit"))
	case engine.StateActive, engine.StateActiveOnBreak:
		if m.snap.BreakActive {
			content.WriteString(styleBreakState.Render("◌ ON BREAK"))
		} else {
			content.WriteString(styleState.Render("● FOCUSING"))
		}
		if m.snap.Profile != nil {
			content.WriteString(fmt.Sprintf("  %s", m.snap.Profile.Name))
		}
		content.WriteString("\n\n")
		content.WriteString(styleClock.Render(output.FormatClock(m.snap.Elapsed)))
		content.WriteString("\n\n")
		content.WriteString(styleHint.Render("b break · s stop · q quit"))
	}

	if m.snap.LastError != "" {
		content.WriteString("\n")
		content.WriteString(styleWarn.Render("⚠ " + m.snap.LastError))
	}

	return styleBox.Render(content.String()) + "\n"
}
