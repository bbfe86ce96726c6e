package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/foqos/foqos/internal/engine"
	"github.com/foqos/foqos/internal/model"
	"github.com/foqos/foqos/internal/streak"
)

// Styles for CLI output.
var (
	// Colors
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorActive  = lipgloss.Color("#10B981") // Green
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorWarning = lipgloss.Color("#F59E0B") // Yellow
	colorError   = lipgloss.Color("#EF4444") // Red

	// Styles
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorActive)

	styleBreak = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWarning)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleDuration = lipgloss.NewStyle().
			Bold(true)
)

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

func (c *CLIFormatter) render(style lipgloss.Style, text string) string {
	if c.IsColorEnabled() {
		return style.Render(text)
	}
	return text
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	c.Println(c.render(styleTitle, text))
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	c.Println(c.render(styleActive, "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(c.render(styleBreak, "⚠ "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(c.render(styleError, "✗ "+text))
}

// PrintStatus prints the engine state.
func (c *CLIFormatter) PrintStatus(snap engine.Snapshot) {
	switch snap.State {
	case engine.StateIdle:
		c.Println(c.render(styleMuted, "No active session"))
	case engine.StateActive, engine.StateActiveOnBreak:
		label := "● FOCUSING"
		style := styleActive
		if snap.BreakActive {
			label = "◌ ON BREAK"
			style = styleBreak
		}
		c.Println(c.render(style, label))
		if snap.Profile != nil {
			c.Printf("%s %s\n", c.render(styleMuted, "profile:"), snap.Profile.Name)
		}
		c.Printf("%s %s\n", c.render(styleMuted, "elapsed:"), c.render(styleDuration, FormatDuration(snap.Elapsed)))
	}
	if snap.LastError != "" {
		c.Warning(snap.LastError)
	}
}

// PrintProfile prints a single profile row.
func (c *CLIFormatter) PrintProfile(p *model.Profile, active bool) {
	marker := "  "
	if active {
		marker = c.render(styleActive, "● ")
	}
	c.Printf("%s%s %s\n", marker, p.Name,
		c.render(styleMuted, fmt.Sprintf("(%s)", p.Strategy.Kind)))
}

// PrintSession prints a single session row.
func (c *CLIFormatter) PrintSession(s *model.Session, profileName string) {
	day := s.StartTime.Format("2006-01-02 15:04")
	dur := FormatDuration(s.Duration())
	if s.IsOpen() {
		dur += " (open)"
	}
	c.Printf("%s  %s  %s\n", c.render(styleMuted, day), c.render(styleDuration, dur), profileName)
}

// PrintStreak prints the streak summary.
func (c *CLIFormatter) PrintStreak(summary streak.Summary) {
	c.Title(fmt.Sprintf("🔥 %d day streak", summary.CurrentStreak))
	c.Printf("%s %d\n", c.render(styleMuted, "sessions:"), summary.TotalSessions)
	c.Printf("%s %s\n", c.render(styleMuted, "focus time:"), FormatDuration(summary.TotalDuration))
}
