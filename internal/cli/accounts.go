package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/safewatch/safewatch/internal/gateway"
	"github.com/safewatch/safewatch/internal/log"
)

// AccountsCmd returns the accounts command.
func AccountsCmd() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List accounts on the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			var opts []gateway.ReadOption
			if refresh {
				opts = append(opts, gateway.Refresh())
			}
			accounts, err := e.gw.Accounts(ctx, opts...)
			if err != nil {
				return fmt.Errorf("failed to load accounts: %s", gateway.UserMessage(err))
			}

			selected, _ := e.session.Load(ctx)
			w := cmd.OutOrStdout()
			if len(accounts) == 0 {
				fmt.Fprintln(w, "No accounts found.")
				return nil
			}
			for _, a := range accounts {
				marker := " "
				if a.ID == selected {
					marker = okColor.Sprint("*")
				}
				fmt.Fprintf(w, "%s %-36s  %-20s  %s  %s\n",
					marker, a.ID, a.Name,
					statusColor(a.Status()).Sprintf("%-15s", a.Status()),
					dimColor.Sprintf("%d contacts", a.ContactCount()),
				)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the query cache")
	return cmd
}

// SelectCmd returns the select command.
func SelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <account-id>",
		Short: "Choose the account the other commands act on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			acct, err := e.gw.Account(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to load account: %s", gateway.UserMessage(err))
			}
			if acct == nil {
				return fmt.Errorf("account %s not found", args[0])
			}

			if prev, ok := e.session.Load(ctx); ok && prev == acct.ID {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already selected.\n", acct.Name)
				return nil
			}
			e.session.Save(ctx, acct.ID)
			e.logger.Activity(log.EventAccountSelected, acct.ID, nil)
			fmt.Fprintf(cmd.OutOrStdout(), "Selected %s (%s)\n", okColor.Sprint(acct.Name), acct.ID)
			return nil
		},
	}
}

// LogoutCmd returns the logout command.
func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the selected account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			prev, ok := e.session.Load(ctx)
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No account selected.")
				return nil
			}
			e.session.Clear(ctx)
			e.logger.Activity(log.EventLogout, prev, nil)
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}
