package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foqos/foqos/internal/model"
	"github.com/foqos/foqos/internal/trigger"
)

// Profile command flags.
var (
	profileFlagStrategy string
	profileFlagTag      string
	profileFlagOrder    int
	profileFlagName     string
)

// profilesCmd is the parent command for profile management.
var profilesCmd = &cobra.Command{
	Use:     "profiles",
	Aliases: []string{"profile", "p"},
	Short:   "Manage focus profiles",
	RunE:    runProfilesList,
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles in display order",
	RunE:  runProfilesList,
}

var profilesAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a new profile",
	Long: `Create a new profile.

Examples:
  foqos profiles add "Deep Work"
  foqos profiles add Study --strategy nfc --tag 04:A2:...
  foqos profiles add Reading --order 2`,
	Args: cobra.ExactArgs(1),
	RunE: runProfilesAdd,
}

var profilesEditCmd = &cobra.Command{
	Use:   "edit PROFILE",
	Short: "Edit a profile's name, order or strategy",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesEdit,
}

var profilesDeleteCmd = &cobra.Command{
	Use:     "delete PROFILE",
	Aliases: []string{"rm"},
	Short:   "Delete a profile",
	Long: `Delete a profile.

Past sessions keep their history. An open session on the deleted profile is
closed by the next reconciliation.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfilesDelete,
}

var profilesLinkCmd = &cobra.Command{
	Use:   "link PROFILE",
	Short: "Print the deeplink that toggles a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesLink,
}

func init() {
	profilesAddCmd.Flags().StringVar(&profileFlagStrategy, "strategy", "manual",
		"Blocking strategy: manual, nfc, qr, deeplink")
	profilesAddCmd.Flags().StringVar(&profileFlagTag, "tag", "",
		"Pin nfc/qr strategies to one tag id")
	profilesAddCmd.Flags().IntVar(&profileFlagOrder, "order", 0,
		"Display order index")

	profilesEditCmd.Flags().StringVar(&profileFlagName, "name", "", "New name")
	profilesEditCmd.Flags().StringVar(&profileFlagStrategy, "strategy", "",
		"New blocking strategy: manual, nfc, qr, deeplink")
	profilesEditCmd.Flags().StringVar(&profileFlagTag, "tag", "", "New tag id")
	profilesEditCmd.Flags().IntVar(&profileFlagOrder, "order", -1,
		"New display order index")

	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesAddCmd)
	profilesCmd.AddCommand(profilesEditCmd)
	profilesCmd.AddCommand(profilesDeleteCmd)
	profilesCmd.AddCommand(profilesLinkCmd)
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	profiles, err := ctx.ProfileRepo.List()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(profiles)
	}

	if len(profiles) == 0 {
		ctx.CLIFormatter().Warning("no profiles yet; create one with: foqos profiles add NAME")
		return nil
	}

	snap := ctx.Engine.Snapshot()
	cli := ctx.CLIFormatter()
	for _, p := range profiles {
		active := snap.Profile != nil && snap.Profile.Key == p.Key
		cli.PrintProfile(p, active)
	}
	return nil
}

func runProfilesAdd(cmd *cobra.Command, args []string) error {
	kind := model.StrategyKind(profileFlagStrategy)
	if !kind.Valid() {
		return fmt.Errorf("unknown strategy %q", profileFlagStrategy)
	}

	profile := model.NewProfile(args[0], profileFlagOrder, model.StrategyConfig{
		Kind:  kind,
		TagID: profileFlagTag,
	})
	if err := ctx.ProfileRepo.Create(profile); err != nil {
		return err
	}
	profile.DeeplinkURL = trigger.DeeplinkFor(profile.Key)
	if err := ctx.ProfileRepo.Update(profile); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(profile)
	}

	cli := ctx.CLIFormatter()
	cli.Success("created profile " + profile.Name)
	cli.Printf("  key: %s\n", profile.Key)
	cli.Printf("  deeplink: %s\n", profile.DeeplinkURL)
	return nil
}

func runProfilesEdit(cmd *cobra.Command, args []string) error {
	profile, err := resolveProfile(args[0])
	if err != nil {
		return err
	}

	if profileFlagName != "" {
		profile.Name = profileFlagName
	}
	if profileFlagOrder >= 0 {
		profile.OrderIndex = profileFlagOrder
	}
	if profileFlagStrategy != "" {
		kind := model.StrategyKind(profileFlagStrategy)
		if !kind.Valid() {
			return fmt.Errorf("unknown strategy %q", profileFlagStrategy)
		}
		profile.Strategy.Kind = kind
	}
	if cmd.Flags().Changed("tag") {
		profile.Strategy.TagID = profileFlagTag
	}

	if err := ctx.ProfileRepo.Update(profile); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(profile)
	}
	ctx.CLIFormatter().Success("updated profile " + profile.Name)
	return nil
}

func runProfilesDelete(cmd *cobra.Command, args []string) error {
	profile, err := resolveProfile(args[0])
	if err != nil {
		return err
	}

	if err := ctx.ProfileRepo.Delete(profile.Key); err != nil {
		return err
	}

	// An open session on this profile is now a ghost; close it right away
	// rather than waiting for the daemon sweep.
	if _, err := ctx.Engine.ReconcileGhostSessions(); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]string{"deleted": profile.Key})
	}
	ctx.CLIFormatter().Success("deleted profile " + profile.Name)
	return nil
}

func runProfilesLink(cmd *cobra.Command, args []string) error {
	profile, err := resolveProfile(args[0])
	if err != nil {
		return err
	}

	link := trigger.DeeplinkFor(profile.Key)
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]string{"profile": profile.Key, "deeplink": link})
	}
	ctx.Formatter.Println(link)
	return nil
}
