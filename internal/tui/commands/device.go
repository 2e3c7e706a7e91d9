package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/safewatch/safewatch/internal/device"
	"github.com/safewatch/safewatch/internal/tui"
)

// LocateCmd asks for location permission and then for a fix.
func LocateCmd(prompter device.Prompter, locator tui.Locator, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if prompter != nil && prompter.RequestLocation(ctx) != device.PermissionGranted {
			return tui.LocationMsg{Gen: gen, Denied: true}
		}
		if locator == nil {
			return tui.LocationMsg{Gen: gen, Err: device.ErrPositionUnavailable}
		}
		pos, err := locator.CurrentPosition(ctx)
		return tui.LocationMsg{Gen: gen, Position: pos, Err: err}
	}
}

// CallCmd launches the phone handler.
func CallCmd(dialer tui.Dialer, phone string) tea.Cmd {
	return func() tea.Msg {
		uri, err := dialer.Call(context.Background(), phone)
		return tui.CallPlacedMsg{URI: uri, Err: err}
	}
}
