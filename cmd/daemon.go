package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/foqos/foqos/internal/logging"
	"github.com/foqos/foqos/internal/scheduler"
)

// daemonCmd represents the daemon command.
var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the background reconciliation daemon",
	Long: `Run the background reconciliation daemon.

The daemon sweeps ghost sessions on a cron schedule (FOQOS_RECONCILE_SPEC)
until interrupted. Ghosts are open sessions whose profile was deleted or
whose start time is older than the staleness threshold.`,
	RunE: runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	sched := scheduler.New(ctx.Engine)
	if err := sched.AddReconcileJob(ctx.Config.Scheduler.ReconcileSpec); err != nil {
		return err
	}

	sched.Start()
	logging.Info("daemon started",
		"reconcile_spec", ctx.Config.Scheduler.ReconcileSpec,
		"database", ctx.DB.Path())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logging.Info("daemon stopping", "signal", sig.String())
	sched.Stop()
	return nil
}

// reconcileCmd represents the reconcile command.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Close ghost sessions now",
	Long: `Close ghost sessions now.

A ghost is an open session whose profile no longer exists or whose start
time is older than the staleness threshold (FOQOS_GHOST_THRESHOLD).`,
	RunE: runReconcile,
}

func runReconcile(cmd *cobra.Command, args []string) error {
	closed, err := ctx.Engine.ReconcileGhostSessions()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]int{"closed": closed})
	}

	cli := ctx.CLIFormatter()
	if closed == 0 {
		cli.Printf("no ghost sessions\n")
		return nil
	}
	cli.Success(fmt.Sprintf("closed %d ghost session(s)", closed))
	return nil
}
