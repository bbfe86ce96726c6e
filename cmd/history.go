package cmd

import (
	"github.com/spf13/cobra"

	"github.com/foqos/foqos/internal/model"
	"github.com/foqos/foqos/internal/output"
	"github.com/foqos/foqos/internal/parser"
	"github.com/foqos/foqos/internal/storage"
)

// History command flags.
var (
	historyFlagFrom  string
	historyFlagUntil string
	historyFlagLimit int
)

// historyCmd represents the history command.
var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"log"},
	Short:   "Show past focus sessions",
	Long: `Show past focus sessions, newest first.

Timeframes accept natural language.

Examples:
  foqos history
  foqos history --limit 10
  foqos history --from "last monday"
  foqos history --from "2 weeks ago" --until yesterday`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyFlagFrom, "from", "", "Only sessions starting after this time")
	historyCmd.Flags().StringVar(&historyFlagUntil, "until", "", "Only sessions starting before this time")
	historyCmd.Flags().IntVarP(&historyFlagLimit, "limit", "n", 0, "Maximum number of sessions (0 = all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	var sessions []*model.Session
	var err error

	if historyFlagFrom != "" || historyFlagUntil != "" {
		var r parser.TimeRange
		r, err = parser.ParseRange(historyFlagFrom, historyFlagUntil)
		if err != nil {
			return err
		}
		sessions, err = ctx.SessionRepo.ListByTimeRange(r.Start, r.End)
	} else {
		sessions, err = ctx.SessionRepo.List()
	}
	if err != nil {
		return err
	}

	if historyFlagLimit > 0 && len(sessions) > historyFlagLimit {
		sessions = sessions[:historyFlagLimit]
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(sessions)
	}

	if len(sessions) == 0 {
		ctx.CLIFormatter().Warning("no sessions in this timeframe")
		return nil
	}

	names, err := profileNames()
	if err != nil {
		return err
	}

	cli := ctx.CLIFormatter()
	for _, s := range sessions {
		name, ok := names[s.ProfileKey]
		if !ok {
			name = "(deleted profile)"
		}
		cli.PrintSession(s, name)
	}
	cli.Printf("\n%d sessions, %s total\n",
		len(sessions), output.FormatDuration(storage.TotalDuration(sessions)))
	return nil
}

// profileNames maps profile keys to display names.
func profileNames() (map[string]string, error) {
	profiles, err := ctx.ProfileRepo.List()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(profiles))
	for _, p := range profiles {
		names[p.Key] = p.Name
	}
	return names, nil
}
