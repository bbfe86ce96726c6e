package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/foqos/foqos/internal/tui"
)

// watchCmd represents the watch command.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the current session live",
	Long: `Watch the current session in a live terminal view.

Keys: b toggles a break, s stops the session, q quits.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ctx.IsJSON() {
		return fmt.Errorf("watch has no JSON mode; use 'foqos status --format json'")
	}

	program := tea.NewProgram(tui.NewWatchModel(ctx.Engine), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
