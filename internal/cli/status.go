// status.go implements the "safewatch status" command, the non-interactive
// dashboard.
package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/safewatch/safewatch/internal/gateway"
	"github.com/safewatch/safewatch/internal/log"
	"github.com/safewatch/safewatch/internal/tui/commands"
	"github.com/safewatch/safewatch/internal/tui/views"
)

// StatusCmd returns the status command.
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the safety status of the selected account",
		Long: `Display the selected account, its active alerts, the overall safety
level, and the state of each monitored component.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			id, err := e.account(ctx)
			if err != nil {
				return err
			}
			acct, err := e.gw.Account(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to load account: %s", gateway.UserMessage(err))
			}
			if acct == nil {
				return fmt.Errorf("account %s not found; run: safewatch select <id>", id)
			}
			e.logger.Activity(log.EventDashboardAccessed, id, nil)

			active := false
			alerts, alertsErr := e.gw.Alerts(ctx, gateway.AlertFilter{
				AccountID: id,
				Limit:     commands.DashboardAlertLimit,
				Resolved:  &active,
			})
			contacts, _ := e.gw.Contacts(ctx, id)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s  %s\n", headingColor.Sprint(acct.Name), dimColor.Sprint(acct.ID))
			fmt.Fprintf(w, "Status: %s\n\n", statusColor(acct.Status()).Sprint(acct.Status()))

			st := views.Summarize(alerts, false, alertsErr)
			fmt.Fprintf(w, "%s\n%s\n\n", levelColor(st.Level).Sprint(st.Title), st.Message)

			if alertsErr == nil || alerts != nil {
				fmt.Fprintln(w, headingColor.Sprint("Active Alerts"))
				if len(alerts) == 0 {
					fmt.Fprintln(w, "  No active alerts")
				}
				for _, a := range alerts {
					printAlert(w, a)
				}
				fmt.Fprintln(w)
			}

			fmt.Fprintln(w, headingColor.Sprint("System Status"))
			for _, c := range views.Components(e.cfg.Location.Enabled, len(contacts), alertsErr) {
				fmt.Fprintf(w, "  %-20s %s  %s\n", c.Name, componentColor(c.State).Sprintf("%-7s", c.State), dimColor.Sprint(c.Detail))
			}
			return nil
		},
	}
}

func componentColor(state string) *color.Color {
	switch state {
	case views.ComponentOnline:
		return okColor
	case views.ComponentWarning:
		return warnColor
	default:
		return dangerColor
	}
}
