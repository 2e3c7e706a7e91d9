// Package tui implements the terminal user interface using Bubble Tea.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/safewatch/safewatch/internal/config"
	"github.com/safewatch/safewatch/internal/device"
	"github.com/safewatch/safewatch/internal/gateway"
	"github.com/safewatch/safewatch/internal/log"
	"github.com/safewatch/safewatch/internal/nav"
)

// Locator returns a position fix.
type Locator interface {
	CurrentPosition(ctx context.Context) (device.Position, error)
}

// Dialer launches a phone call.
type Dialer interface {
	Call(ctx context.Context, phone string) (string, error)
}

// Deps are the collaborators the screens talk to.
type Deps struct {
	Config   *config.Config
	Gateway  gateway.Gateway
	Session  nav.SessionStore
	Logger   *log.Logger
	Locator  Locator
	Prompter device.Prompter
	Dialer   Dialer
}

// Model holds state shared by every screen.
type Model struct {
	Deps

	Nav     *nav.Controller
	Spinner spinner.Model

	Width  int
	Height int

	// Ctrl+C confirmation state
	CtrlCPending bool
}

// NewModel creates a Model in the loading phase.
func NewModel(deps Deps) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(primaryColor))

	return &Model{
		Deps:    deps,
		Nav:     nav.New(deps.Session, deps.Logger),
		Spinner: s,
		Width:   80,
		Height:  24,
	}
}

// AppName returns the configured display name.
func (m *Model) AppName() string {
	if m.Config != nil && m.Config.App.Name != "" {
		return m.Config.App.Name
	}
	return "SafeWatch"
}
