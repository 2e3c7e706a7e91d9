package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/safewatch/safewatch/internal/alert"
	"github.com/safewatch/safewatch/internal/device"
	"github.com/safewatch/safewatch/internal/gateway"
	"github.com/safewatch/safewatch/internal/log"
	"github.com/safewatch/safewatch/internal/tui/commands"
)

// AlertsCmd returns the alerts command.
func AlertsCmd() *cobra.Command {
	var (
		all      bool
		resolved bool
		limit    int
		refresh  bool
	)
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "List alerts for the selected account",
		Long: `List alerts for the selected account, newest first. Only active alerts
are shown unless --all or --resolved is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all && resolved {
				return errors.New("--all and --resolved are mutually exclusive")
			}
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

			f := gateway.AlertFilter{AccountID: id, Limit: limit}
			label := "active"
			switch {
			case resolved:
				f.Resolved = &resolved
				label = "resolved"
			case !all:
				active := false
				f.Resolved = &active
			default:
				label = ""
			}

			var opts []gateway.ReadOption
			if refresh {
				opts = append(opts, gateway.Refresh())
			}
			alerts, err := e.gw.Alerts(ctx, f, opts...)
			if err != nil {
				return fmt.Errorf("failed to load alerts: %s", gateway.UserMessage(err))
			}

			w := cmd.OutOrStdout()
			if len(alerts) == 0 {
				if label == "" {
					fmt.Fprintln(w, "No alerts found")
				} else {
					fmt.Fprintf(w, "No %s alerts found\n", label)
				}
				return nil
			}
			for _, a := range alerts {
				printAlert(w, a)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include resolved alerts")
	cmd.Flags().BoolVar(&resolved, "resolved", false, "Show only resolved alerts")
	cmd.Flags().IntVar(&limit, "limit", commands.HistoryAlertLimit, "Maximum number of alerts")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the query cache")
	return cmd
}

// ResolveCmd returns the resolve command.
func ResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <alert-id>",
		Short: "Mark an alert resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			a, err := e.gw.ResolveAlert(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to resolve alert: %s", gateway.UserMessage(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", okColor.Sprint("Resolved"), a.Type.Label())
			return nil
		},
	}
}

// SendCmd returns the send command.
func SendCmd() *cobra.Command {
	var (
		alertType string
		severity  string
		location  string
		message   string
		locate    bool
	)
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send an emergency alert for the selected account",
		Long: `Send an emergency alert. --type and --severity are required. The
location comes from --location, or from the configured device position with
--locate. Without --message a default message is built from the type,
severity and location.`,
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

			t := alert.ParseAlertType(alertType)
			sev := alert.ParseSeverity(severity)
			if !t.Known() || !sev.Known() {
				return errors.New("please select both emergency type and severity level")
			}

			in := gateway.CreateAlertInput{UserID: id, Type: t, Severity: sev}
			location = strings.TrimSpace(location)
			if location == "" && locate {
				pos, err := currentPosition(ctx, e)
				if err != nil {
					return err
				}
				location = pos.String()
				lat, lng := pos.Latitude, pos.Longitude
				in.Latitude, in.Longitude = &lat, &lng
			}
			if location == "" {
				return errors.New("please provide your current location")
			}

			in.Message = strings.TrimSpace(message)
			if in.Message == "" {
				in.Message = alert.DefaultMessage(t, sev, location)
			}

			a, err := e.gw.CreateAlert(ctx, in)
			if err != nil {
				return fmt.Errorf("failed to send emergency alert: %s", gateway.UserMessage(err))
			}
			e.logger.AlertActivity(log.EventEmergencyTriggered, id, a.ID, map[string]interface{}{
				"type":     a.Type.String(),
				"severity": a.Severity.String(),
			})

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, dangerColor.Sprint("Emergency Alert Sent"))
			fmt.Fprintln(w, "Your emergency alert has been sent. Your contacts and local authorities have been notified.")
			fmt.Fprintf(w, "%s\n", dimColor.Sprint(a.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&alertType, "type", "", "Alert type, e.g. FLOOD_WARNING")
	cmd.Flags().StringVar(&severity, "severity", "", "Severity: INFO, ADVISORY, WATCH, WARNING, EMERGENCY, CRITICAL")
	cmd.Flags().StringVar(&location, "location", "", "Where the emergency is")
	cmd.Flags().StringVar(&message, "message", "", "Description of the situation")
	cmd.Flags().BoolVar(&locate, "locate", false, "Use the configured device position")
	return cmd
}

func currentPosition(ctx context.Context, e *env) (device.Position, error) {
	prompter := device.StaticPrompter{Granted: e.cfg.Location.Enabled}
	if prompter.RequestLocation(ctx) != device.PermissionGranted {
		return device.Position{}, errors.New("location permission required; enable location in config.yaml or pass --location")
	}
	pos, err := device.NewConfigLocator(e.cfg.Location).CurrentPosition(ctx)
	if err != nil {
		return device.Position{}, errors.New("unable to get your current location; please pass --location")
	}
	return pos, nil
}
