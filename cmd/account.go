package cmd

import (
	"github.com/spf13/cobra"

	"github.com/foqos/foqos/internal/profilesync"
)

// Account command flags.
var (
	accountFlagUsername string
	accountFlagFullName string
	accountFlagWebsite  string
)

// accountCmd is the parent command for the remote account profile.
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show or update the remote account profile",
}

var accountShowCmd = &cobra.Command{
	Use:   "show USER_ID",
	Short: "Show the account profile",
	Long: `Show the account profile.

A cached copy is served immediately when one exists and refreshed in the
background; otherwise the remote store is queried directly.`,
	Args: cobra.ExactArgs(1),
	RunE: runAccountShow,
}

var accountSetCmd = &cobra.Command{
	Use:   "set USER_ID",
	Short: "Update the account profile",
	Long: `Update the account profile.

The remote store is written first; the local cache is only updated once the
remote write succeeds.

Examples:
  foqos account set 42 --username ana --name "Ana Dias"`,
	Args: cobra.ExactArgs(1),
	RunE: runAccountSet,
}

func init() {
	accountSetCmd.Flags().StringVar(&accountFlagUsername, "username", "", "Username")
	accountSetCmd.Flags().StringVar(&accountFlagFullName, "name", "", "Full name")
	accountSetCmd.Flags().StringVar(&accountFlagWebsite, "website", "", "Website URL")

	accountCmd.AddCommand(accountShowCmd)
	accountCmd.AddCommand(accountSetCmd)
}

func runAccountShow(cmd *cobra.Command, args []string) error {
	profile, err := ctx.Profiles.FetchProfile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(profile)
	}

	cli := ctx.CLIFormatter()
	cli.Title(profile.Username)
	if profile.FullName != "" {
		cli.Printf("  name: %s\n", profile.FullName)
	}
	if profile.Website != "" {
		cli.Printf("  website: %s\n", profile.Website)
	}
	return nil
}

func runAccountSet(cmd *cobra.Command, args []string) error {
	userID := args[0]

	params := accountParams(cmd, userID)

	if err := ctx.Profiles.UpsertProfile(cmd.Context(), userID, params); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(params)
	}
	ctx.CLIFormatter().Success("profile saved")
	return nil
}

// accountParams merges the set flags over the current profile so unset flags
// keep their remote value. A fetch failure just means starting from blank.
func accountParams(cmd *cobra.Command, userID string) profilesync.UpsertParams {
	var params profilesync.UpsertParams
	if current, err := ctx.Profiles.FetchProfile(cmd.Context(), userID); err == nil {
		params.Username = current.Username
		params.FullName = current.FullName
		params.Website = current.Website
	}

	if cmd.Flags().Changed("username") {
		params.Username = accountFlagUsername
	}
	if cmd.Flags().Changed("name") {
		params.FullName = accountFlagFullName
	}
	if cmd.Flags().Changed("website") {
		params.Website = accountFlagWebsite
	}
	return params
}
