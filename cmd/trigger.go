package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/foqos/foqos/internal/trigger"
)

// Trigger command flags.
var triggerFlagSource string

// triggerCmd represents the trigger command.
var triggerCmd = &cobra.Command{
	Use:   "trigger PAYLOAD",
	Short: "Toggle a session from an external trigger",
	Long: `Toggle a session from an external trigger payload.

The payload is either a foqos:// deeplink or a raw profile key as read from
an NFC tag or QR code. From idle the profile's session starts; triggering
the active profile stops it; triggering a different profile is rejected.

Examples:
  foqos trigger foqos://profile/profile:0190a7f2-...
  foqos trigger --source nfc profile:0190a7f2-...`,
	Args: cobra.ExactArgs(1),
	RunE: runTrigger,
}

func init() {
	triggerCmd.Flags().StringVar(&triggerFlagSource, "source", "deeplink",
		"Trigger source: deeplink, nfc, qr")
}

func runTrigger(cmd *cobra.Command, args []string) error {
	payload := args[0]

	var ev trigger.Event
	var err error
	switch trigger.Source(triggerFlagSource) {
	case trigger.SourceNFC:
		ev, err = trigger.TagEvent(trigger.SourceNFC, payload)
	case trigger.SourceQR:
		ev, err = trigger.TagEvent(trigger.SourceQR, payload)
	case trigger.SourceDeeplink:
		if strings.HasPrefix(payload, trigger.Scheme+"://") {
			ev, err = trigger.ParseDeeplink(payload)
		} else {
			ev, err = trigger.TagEvent(trigger.SourceDeeplink, payload)
		}
	default:
		return fmt.Errorf("unknown trigger source %q", triggerFlagSource)
	}
	if err != nil {
		return err
	}

	if err := ctx.Engine.ToggleFromTrigger(ev); err != nil {
		return err
	}

	return reportToggleOutcome(ctx.Engine.Snapshot())
}
