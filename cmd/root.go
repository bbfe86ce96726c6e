// Package cmd provides the CLI commands for Foqos.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/foqos/foqos/internal/engine"
	"github.com/foqos/foqos/internal/logging"
	"github.com/foqos/foqos/internal/model"
	"github.com/foqos/foqos/internal/output"
	"github.com/foqos/foqos/internal/runtime"
	"github.com/foqos/foqos/internal/storage"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat string
	flagColor  string
	flagDebug  bool
)

// ctx is the shared runtime context.
var ctx *runtime.Context

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "foqos",
	Short: "A focus session manager for the command line",
	Long: `Foqos manages focus sessions bound to blocking profiles.

Examples:
  foqos profiles add "Deep Work"
  foqos start "Deep Work"
  foqos break
  foqos stop
  foqos streak`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for completion and help commands
		if cmd.Name() == "completion" || cmd.Name() == "help" {
			return nil
		}

		// The package default only surfaces warnings; debug mode opts into
		// verbose structured logs.
		if flagDebug {
			logging.Init(logging.DebugConfig())
		}

		// Parse format flag
		var format output.Format
		switch flagFormat {
		case "json":
			format = output.FormatJSON
		default:
			format = output.FormatCLI
		}

		// Parse color flag
		var colorMode output.ColorMode
		switch flagColor {
		case "always":
			colorMode = output.ColorAlways
		case "never":
			colorMode = output.ColorNever
		default:
			colorMode = output.ColorAuto
		}

		// Create runtime context
		opts := runtime.DefaultOptions()
		opts.Format = format
		opts.ColorMode = colorMode

		var err error
		ctx, err = runtime.New(opts)
		if err != nil {
			return err
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if ctx != nil {
			return ctx.Close()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: show current status
		return runStatus(cmd, args)
	},
}

// statusCmd shows the current session status.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session status",
	RunE:  runStatus,
}

// statusPayload is the JSON shape of a status report.
type statusPayload struct {
	State       string  `json:"state"`
	Profile     string  `json:"profile,omitempty"`
	ProfileKey  string  `json:"profile_key,omitempty"`
	ElapsedSecs float64 `json:"elapsed_seconds"`
	BreakActive bool    `json:"break_active"`
	LastError   string  `json:"last_error,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	snap := ctx.Engine.Snapshot()

	if ctx.IsJSON() {
		payload := statusPayload{
			State:       snap.State.String(),
			ElapsedSecs: snap.Elapsed.Seconds(),
			BreakActive: snap.BreakActive,
			LastError:   snap.LastError,
		}
		if snap.Profile != nil {
			payload.Profile = snap.Profile.Name
			payload.ProfileKey = snap.Profile.Key
		}
		return ctx.Formatter.JSON(payload)
	}

	ctx.CLIFormatter().PrintStatus(snap)
	return nil
}

// resolveProfile finds a profile by key or by name.
func resolveProfile(arg string) (*model.Profile, error) {
	if strings.HasPrefix(arg, model.PrefixProfile+":") {
		profile, err := ctx.ProfileRepo.Get(arg)
		if err != nil {
			if storage.IsErrKeyNotFound(err) {
				return nil, fmt.Errorf("no profile with key %q", arg)
			}
			return nil, err
		}
		return profile, nil
	}

	profile, err := ctx.ProfileRepo.FindByName(arg)
	if err != nil {
		if storage.IsErrKeyNotFound(err) {
			return nil, fmt.Errorf("no profile named %q", arg)
		}
		return nil, err
	}
	return profile, nil
}

// reportToggleOutcome prints the state the engine landed in after a toggle.
func reportToggleOutcome(snap engine.Snapshot) error {
	if ctx.IsJSON() {
		return runStatus(nil, nil)
	}

	cli := ctx.CLIFormatter()
	switch snap.State {
	case engine.StateIdle:
		cli.Success("session stopped")
	default:
		name := ""
		if snap.Profile != nil {
			name = snap.Profile.Name
		}
		cli.Success("session started: " + name)
	}
	if snap.LastError != "" {
		cli.Warning(snap.LastError)
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")

	// Add commands
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(breakCmd)
	rootCmd.AddCommand(triggerCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(streakCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("foqos %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}
