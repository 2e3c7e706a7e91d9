package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// ActivityCmd returns the activity command.
func ActivityCmd() *cobra.Command {
	var (
		limit int
		all   bool
	)
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent usage activity",
		Long: `Show recent activity events (account selection, dashboard visits,
viewed alerts, emergency alerts, logouts) for the selected account, or for
every account with --all.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			accountID := ""
			if !all {
				if accountID, err = e.account(ctx); err != nil {
					return err
				}
			}
			events, err := e.logger.RecentActivity(accountID, limit)
			if err != nil {
				return fmt.Errorf("reading activity: %w", err)
			}

			w := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(w, "No activity recorded.")
				return nil
			}
			for _, ev := range events {
				fmt.Fprintf(w, "  %s  %-20s  %s", dimColor.Sprint(ev.Time.Local().Format(time.DateTime)), ev.Event, ev.AccountID)
				if ev.AlertID != "" {
					fmt.Fprintf(w, "  alert=%s", ev.AlertID)
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of events")
	cmd.Flags().BoolVar(&all, "all", false, "Include every account")
	return cmd
}
