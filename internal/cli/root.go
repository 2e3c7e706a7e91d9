// Package cli defines Cobra command definitions for the safewatch CLI.
// This file contains the root command, global flags, and the TUI launch.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/safewatch/safewatch/internal/device"
	"github.com/safewatch/safewatch/internal/tui"
	"github.com/safewatch/safewatch/internal/tui/app"
)

var (
	homeDir   string
	serverURL string
	version   = "dev" // set via ldflags at build time
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "safewatch",
		Short: "Personal safety alert client",
		Long: `SafeWatch shows active safety alerts for an account, manages its
emergency contacts, and sends emergency alerts to the monitoring backend.
Run without arguments in a terminal to open the interactive interface.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// When no subcommand is provided, launch TUI if TTY, show help otherwise
			if !tui.IsTTY() {
				return cmd.Help()
			}
			return runTUI(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "Directory holding .safewatch/ (default $HOME)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Backend procedure URL, overriding config.yaml")

	rootCmd.AddCommand(AccountsCmd())
	rootCmd.AddCommand(SelectCmd())
	rootCmd.AddCommand(LogoutCmd())
	rootCmd.AddCommand(StatusCmd())
	rootCmd.AddCommand(AlertsCmd())
	rootCmd.AddCommand(ResolveCmd())
	rootCmd.AddCommand(SendCmd())
	rootCmd.AddCommand(ContactsCmd())
	rootCmd.AddCommand(ActivityCmd())
	rootCmd.AddCommand(DevserverCmd())

	return rootCmd
}

func runTUI(ctx context.Context) error {
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	tuiApp := app.New(tui.Deps{
		Config:   e.cfg,
		Gateway:  e.gw,
		Session:  e.session,
		Logger:   e.logger,
		Locator:  device.NewConfigLocator(e.cfg.Location),
		Prompter: device.StaticPrompter{Granted: e.cfg.Location.Enabled},
		Dialer:   device.NewDialer(),
	})
	return tui.Run(tuiApp)
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
