package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/safewatch/safewatch/internal/gateway"
	"github.com/safewatch/safewatch/internal/tui"
)

// ResolveAlertCmd marks an alert resolved.
func ResolveAlertCmd(gw gateway.Gateway, gen uint64, id string) tea.Cmd {
	return func() tea.Msg {
		a, err := gw.ResolveAlert(context.Background(), id)
		return tui.AlertResolvedMsg{Gen: gen, Alert: a, Err: err}
	}
}

// CreateAlertCmd submits an emergency alert.
func CreateAlertCmd(gw gateway.Gateway, gen uint64, in gateway.CreateAlertInput) tea.Cmd {
	return func() tea.Msg {
		a, err := gw.CreateAlert(context.Background(), in)
		return tui.AlertCreatedMsg{Gen: gen, Alert: a, Err: err}
	}
}

// SaveContactCmd creates a contact when id is empty, otherwise updates it.
func SaveContactCmd(gw gateway.Gateway, gen uint64, accountID, id string, in gateway.ContactInput) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if id == "" {
			c, err := gw.CreateContact(ctx, accountID, in)
			return tui.ContactSavedMsg{Gen: gen, Contact: c, Created: true, Err: err}
		}
		c, err := gw.UpdateContact(ctx, id, in)
		return tui.ContactSavedMsg{Gen: gen, Contact: c, Err: err}
	}
}

// DeleteContactCmd removes a contact.
func DeleteContactCmd(gw gateway.Gateway, gen uint64, id string) tea.Cmd {
	return func() tea.Msg {
		err := gw.DeleteContact(context.Background(), id)
		return tui.ContactDeletedMsg{Gen: gen, ID: id, Err: err}
	}
}
