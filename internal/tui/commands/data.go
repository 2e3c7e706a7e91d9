// Package commands provides Bubble Tea commands for TUI operations.
package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/safewatch/safewatch/internal/gateway"
	"github.com/safewatch/safewatch/internal/nav"
	"github.com/safewatch/safewatch/internal/tui"
)

// Query limits used by the screens.
const (
	DashboardAlertLimit = 10
	HistoryAlertLimit   = 50
)

func readOpts(refresh bool) []gateway.ReadOption {
	if refresh {
		return []gateway.ReadOption{gateway.Refresh()}
	}
	return nil
}

// LoadSessionCmd resolves the persisted account selection.
func LoadSessionCmd(sess nav.SessionStore) tea.Cmd {
	return func() tea.Msg {
		id, ok := sess.Load(context.Background())
		return tui.SessionLoadedMsg{AccountID: id, OK: ok}
	}
}

// LoadAccountsCmd fetches the account list.
func LoadAccountsCmd(gw gateway.Gateway, req tui.Request, refresh bool) tea.Cmd {
	return func() tea.Msg {
		accounts, err := gw.Accounts(context.Background(), readOpts(refresh)...)
		return tui.AccountsLoadedMsg{Request: req, Accounts: accounts, Err: err}
	}
}

// LoadAccountCmd fetches one account.
func LoadAccountCmd(gw gateway.Gateway, req tui.Request, id string, refresh bool) tea.Cmd {
	return func() tea.Msg {
		acct, err := gw.Account(context.Background(), id, readOpts(refresh)...)
		return tui.AccountLoadedMsg{Request: req, Account: acct, Err: err}
	}
}

// LoadAlertsCmd fetches alerts for an account.
func LoadAlertsCmd(gw gateway.Gateway, req tui.Request, f gateway.AlertFilter, refresh bool) tea.Cmd {
	return func() tea.Msg {
		alerts, err := gw.Alerts(context.Background(), f, readOpts(refresh)...)
		return tui.AlertsLoadedMsg{Request: req, Alerts: alerts, Err: err}
	}
}

// LoadContactsCmd fetches an account's emergency contacts.
func LoadContactsCmd(gw gateway.Gateway, req tui.Request, accountID string, refresh bool) tea.Cmd {
	return func() tea.Msg {
		contacts, err := gw.Contacts(context.Background(), accountID, readOpts(refresh)...)
		return tui.ContactsLoadedMsg{Request: req, Contacts: contacts, Err: err}
	}
}

// LoadScreenCmd issues every query the given screen renders.
func LoadScreenCmd(gw gateway.Gateway, screen nav.Screen, accountID string, req tui.Request, refresh bool) tea.Cmd {
	switch screen {
	case nav.AccountSelection:
		return LoadAccountsCmd(gw, req, refresh)
	case nav.Dashboard:
		active := false
		return tea.Batch(
			LoadAccountCmd(gw, req, accountID, refresh),
			LoadAlertsCmd(gw, req, gateway.AlertFilter{
				AccountID: accountID,
				Limit:     DashboardAlertLimit,
				Resolved:  &active,
			}, refresh),
			LoadContactsCmd(gw, req, accountID, refresh),
		)
	case nav.AlertHistory:
		return tea.Batch(
			LoadAccountCmd(gw, req, accountID, refresh),
			LoadAlertsCmd(gw, req, gateway.AlertFilter{
				AccountID: accountID,
				Limit:     HistoryAlertLimit,
			}, refresh),
		)
	case nav.EmergencyContacts:
		return tea.Batch(
			LoadAccountCmd(gw, req, accountID, refresh),
			LoadContactsCmd(gw, req, accountID, refresh),
		)
	default:
		return nil
	}
}
