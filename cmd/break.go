package cmd

import (
	"github.com/spf13/cobra"

	"github.com/foqos/foqos/internal/engine"
)

// breakCmd toggles the break state of the current session.
var breakCmd = &cobra.Command{
	Use:   "break",
	Short: "Toggle a break on the current session",
	Long: `Toggle a break on the current session.

A break suspends blocking without closing the session; the elapsed timer
keeps running. Toggling again resumes blocking.`,
	RunE: runBreak,
}

func runBreak(cmd *cobra.Command, args []string) error {
	if ctx.Engine.State() == engine.StateIdle {
		if ctx.IsJSON() {
			return runStatus(cmd, args)
		}
		ctx.CLIFormatter().Warning("no active session")
		return nil
	}

	ctx.Engine.ToggleBreak()
	snap := ctx.Engine.Snapshot()

	if ctx.IsJSON() {
		return runStatus(cmd, args)
	}

	cli := ctx.CLIFormatter()
	if snap.BreakActive {
		cli.Success("break started, blocking suspended")
	} else {
		cli.Success("break over, blocking resumed")
	}
	if snap.LastError != "" {
		cli.Warning(snap.LastError)
	}
	return nil
}
