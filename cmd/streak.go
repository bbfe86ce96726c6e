package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/foqos/foqos/internal/streak"
)

// streakCmd represents the streak command.
var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the current daily focus streak",
	Long: `Show the current daily focus streak.

A day counts toward the streak if at least one session started on it. Today
counts as soon as a session starts; a day without sessions breaks the chain,
except that today gets until midnight before it does.`,
	RunE: runStreak,
}

func runStreak(cmd *cobra.Command, args []string) error {
	sessions, err := ctx.SessionRepo.List()
	if err != nil {
		return err
	}

	summary := streak.Summarize(sessions, time.Now())

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(summary)
	}

	ctx.CLIFormatter().PrintStreak(summary)
	return nil
}
