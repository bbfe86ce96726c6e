package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/foqos/foqos/internal/engine"
	"github.com/foqos/foqos/internal/output"
)

// startCmd represents the start command.
var startCmd = &cobra.Command{
	Use:   "start PROFILE",
	Short: "Start a focus session on a profile",
	Long: `Start a focus session on a profile, by name or key.

Only one session can run at a time; stop the current one first.

Examples:
  foqos start "Deep Work"
  foqos start profile:0190a7f2-...`,
	Args: cobra.ExactArgs(1),
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	profile, err := resolveProfile(args[0])
	if err != nil {
		return err
	}

	if err := ctx.Engine.Start(profile); err != nil {
		if errors.Is(err, engine.ErrAlreadyActive) {
			snap := ctx.Engine.Snapshot()
			if snap.Profile != nil {
				return errors.New("a session is already active on " + snap.Profile.Name)
			}
		}
		return err
	}

	snap := ctx.Engine.Snapshot()
	if ctx.IsJSON() {
		return runStatus(cmd, args)
	}

	cli := ctx.CLIFormatter()
	cli.Success("focusing on " + profile.Name)
	if snap.LastError != "" {
		cli.Warning(snap.LastError)
	}
	return nil
}

// stopCmd represents the stop command.
var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the current focus session",
	RunE:  runStop,
}

func runStop(cmd *cobra.Command, args []string) error {
	before := ctx.Engine.Snapshot()
	if before.State == engine.StateIdle {
		if ctx.IsJSON() {
			return runStatus(cmd, args)
		}
		ctx.CLIFormatter().Warning("no active session")
		return nil
	}

	if err := ctx.Engine.Stop(); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return runStatus(cmd, args)
	}

	cli := ctx.CLIFormatter()
	cli.Success("session stopped after " + output.FormatDuration(before.Elapsed))
	if last := ctx.Engine.LastError(); last != "" {
		cli.Warning(last)
	}
	return nil
}
