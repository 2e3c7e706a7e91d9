// Package app provides the main TUI application that wires all views together.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/safewatch/safewatch/internal/device"
	"github.com/safewatch/safewatch/internal/log"
	"github.com/safewatch/safewatch/internal/nav"
	"github.com/safewatch/safewatch/internal/tui"
	"github.com/safewatch/safewatch/internal/tui/commands"
	"github.com/safewatch/safewatch/internal/tui/views"
)

// App is the main TUI application that wires all views together.
type App struct {
	model *tui.Model

	// loadSeq numbers screen loads; applied holds the newest Seq shown per
	// result kind so a slower, older load cannot overwrite it.
	loadSeq uint64
	applied map[string]uint64

	// View models, rebuilt on every mount
	accountsView  views.AccountsModel
	dashboardView views.DashboardModel
	historyView   views.HistoryModel
	contactsView  views.ContactsModel
	emergencyView views.EmergencyModel
}

// New creates a new App around the given collaborators.
func New(deps tui.Deps) *App {
	return &App{model: tui.NewModel(deps), applied: make(map[string]uint64)}
}

// Model exposes the shared state, mainly for tests.
func (a *App) Model() *tui.Model {
	return a.model
}

// Init starts the spinner and the boot-time session lookup.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.model.Spinner.Tick, commands.LoadSessionCmd(a.model.Session))
}

// Update handles messages and updates the application state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.model.Width = msg.Width
		a.model.Height = msg.Height
		return a, a.routeToView(msg)

	case tea.KeyMsg:
		if key.Matches(msg, tui.DefaultKeyMap.CtrlC) {
			if a.model.CtrlCPending {
				// Second press within timeout - exit
				return a, tea.Quit
			}
			a.model.CtrlCPending = true
			return a, tea.Tick(time.Second, func(time.Time) tea.Msg {
				return tui.CtrlCResetMsg{}
			})
		}

	case tui.CtrlCResetMsg:
		a.model.CtrlCPending = false
		return a, nil

	case spinner.TickMsg:
		if a.model.Nav.Phase() != nav.Loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.model.Spinner, cmd = a.model.Spinner.Update(msg)
		return a, cmd

	case tui.SessionLoadedMsg:
		a.model.Nav.Resolve(msg.AccountID, msg.OK)
		return a, a.mount()
	}

	// Nothing but the boot lookup is handled while loading.
	if a.model.Nav.Phase() == nav.Loading {
		return a, nil
	}

	if cmd, handled := a.handleIntent(msg); handled {
		return a, cmd
	}

	if gen, tagged := generationOf(msg); tagged {
		if !a.model.Nav.IsCurrent(gen) || a.superseded(msg) {
			return a, nil
		}
		return a, tea.Batch(a.routeToView(msg), a.afterResult(msg))
	}

	return a, a.routeToView(msg)
}

// handleIntent turns a view's request into controller calls or backend
// commands.
func (a *App) handleIntent(msg tea.Msg) (tea.Cmd, bool) {
	ctx := context.Background()
	m := a.model
	gen := m.Nav.Generation()

	switch msg := msg.(type) {
	case tui.NavigateMsg:
		if !m.Nav.Dispatch(ctx, msg.Event) {
			return nil, true
		}
		return a.mount(), true

	case tui.SelectAccountMsg:
		if !m.Nav.Select(ctx, msg.AccountID) {
			return nil, true
		}
		return a.mount(), true

	case tui.RefreshMsg:
		return a.load(true), true

	case tui.ViewAlertMsg:
		m.Logger.AlertActivity(log.EventAlertViewed, m.Nav.Account(), msg.ID, nil)
		return nil, true

	case tui.ResolveAlertMsg:
		return commands.ResolveAlertCmd(m.Gateway, gen, msg.ID), true

	case tui.SubmitAlertMsg:
		in := msg.Input
		in.UserID = m.Nav.Account()
		return commands.CreateAlertCmd(m.Gateway, gen, in), true

	case tui.SaveContactMsg:
		return commands.SaveContactCmd(m.Gateway, gen, m.Nav.Account(), msg.ID, msg.Input), true

	case tui.DeleteContactMsg:
		return commands.DeleteContactCmd(m.Gateway, gen, msg.ID), true

	case tui.CallContactMsg:
		if m.Dialer == nil {
			return func() tea.Msg { return tui.CallPlacedMsg{Err: device.ErrInvalidPhone} }, true
		}
		return commands.CallCmd(m.Dialer, msg.Phone), true

	case tui.LocateMsg:
		return commands.LocateCmd(m.Prompter, m.Locator, gen), true
	}
	return nil, false
}

// afterResult runs follow-up work for a current-generation result.
func (a *App) afterResult(msg tea.Msg) tea.Cmd {
	m := a.model
	switch msg := msg.(type) {
	case tui.AlertCreatedMsg:
		if msg.Err == nil && msg.Alert != nil {
			m.Logger.AlertActivity(log.EventEmergencyTriggered, m.Nav.Account(), msg.Alert.ID, map[string]interface{}{
				"type":     msg.Alert.Type.String(),
				"severity": msg.Alert.Severity.String(),
			})
		}
	case tui.AlertResolvedMsg:
		if msg.Err == nil {
			return a.reload()
		}
	case tui.ContactSavedMsg:
		if msg.Err == nil {
			return a.reload()
		}
	case tui.ContactDeletedMsg:
		if msg.Err == nil {
			return a.reload()
		}
	}
	return nil
}

// reload refetches the mounted screen. Queries the mutation invalidated go
// back to the network; the rest are served from cache.
func (a *App) reload() tea.Cmd {
	return a.load(false)
}

// load issues the mounted screen's queries under a new request number.
func (a *App) load(refresh bool) tea.Cmd {
	m := a.model
	a.loadSeq++
	req := tui.Request{Gen: m.Nav.Generation(), Seq: a.loadSeq}
	return commands.LoadScreenCmd(m.Gateway, m.Nav.Screen(), m.Nav.Account(), req, refresh)
}

// superseded reports whether a newer load's result of the same kind has
// already been shown. Otherwise it records msg as the newest.
func (a *App) superseded(msg tea.Msg) bool {
	var kind string
	var req tui.Request
	switch msg := msg.(type) {
	case tui.AccountsLoadedMsg:
		kind, req = "accounts", msg.Request
	case tui.AccountLoadedMsg:
		kind, req = "account", msg.Request
	case tui.AlertsLoadedMsg:
		kind, req = "alerts", msg.Request
	case tui.ContactsLoadedMsg:
		kind, req = "contacts", msg.Request
	default:
		return false
	}
	if req.Seq < a.applied[kind] {
		return true
	}
	a.applied[kind] = req.Seq
	return false
}

// mount builds a fresh view for the controller's screen and issues its
// queries under the current generation.
func (a *App) mount() tea.Cmd {
	m := a.model
	w, h := m.Width, m.Height
	var initCmd tea.Cmd

	switch m.Nav.Screen() {
	case nav.AccountSelection:
		a.accountsView = views.NewAccountsModel(w, h)
		initCmd = a.accountsView.Init()
	case nav.Dashboard:
		locationEnabled := m.Config != nil && m.Config.Location.Enabled
		a.dashboardView = views.NewDashboardModel(w, h, locationEnabled)
		initCmd = a.dashboardView.Init()
	case nav.AlertHistory:
		a.historyView = views.NewHistoryModel(w, h)
		initCmd = a.historyView.Init()
	case nav.EmergencyContacts:
		a.contactsView = views.NewContactsModel(w, h)
		initCmd = a.contactsView.Init()
	case nav.EmergencyAlert:
		a.emergencyView = views.NewEmergencyModel(w, h)
		initCmd = a.emergencyView.Init()
	}

	return tea.Batch(initCmd, a.load(false))
}

// routeToView forwards msg to the mounted view.
func (a *App) routeToView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.model.Nav.Screen() {
	case nav.AccountSelection:
		a.accountsView, cmd = a.accountsView.Update(msg)
	case nav.Dashboard:
		a.dashboardView, cmd = a.dashboardView.Update(msg)
	case nav.AlertHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case nav.EmergencyContacts:
		a.contactsView, cmd = a.contactsView.Update(msg)
	case nav.EmergencyAlert:
		a.emergencyView, cmd = a.emergencyView.Update(msg)
	}
	return cmd
}

// generationOf extracts the mount generation from a data result.
func generationOf(msg tea.Msg) (uint64, bool) {
	switch msg := msg.(type) {
	case tui.AccountsLoadedMsg:
		return msg.Gen, true
	case tui.AccountLoadedMsg:
		return msg.Gen, true
	case tui.AlertsLoadedMsg:
		return msg.Gen, true
	case tui.ContactsLoadedMsg:
		return msg.Gen, true
	case tui.AlertResolvedMsg:
		return msg.Gen, true
	case tui.AlertCreatedMsg:
		return msg.Gen, true
	case tui.ContactSavedMsg:
		return msg.Gen, true
	case tui.ContactDeletedMsg:
		return msg.Gen, true
	case tui.LocationMsg:
		return msg.Gen, true
	}
	return 0, false
}

// View renders the current application state.
func (a *App) View() string {
	m := a.model
	if m.Nav.Phase() == nav.Loading {
		return a.centerContent(views.Loading(m.Width, m.AppName(), m.Spinner.View()))
	}

	var content string
	switch m.Nav.Screen() {
	case nav.AccountSelection:
		a.accountsView.SetCtrlCPending(m.CtrlCPending)
		content = a.accountsView.View()
	case nav.Dashboard:
		a.dashboardView.SetCtrlCPending(m.CtrlCPending)
		content = a.dashboardView.View()
	case nav.AlertHistory:
		a.historyView.SetCtrlCPending(m.CtrlCPending)
		content = a.historyView.View()
	case nav.EmergencyContacts:
		a.contactsView.SetCtrlCPending(m.CtrlCPending)
		content = a.contactsView.View()
	case nav.EmergencyAlert:
		a.emergencyView.SetCtrlCPending(m.CtrlCPending)
		content = a.emergencyView.View()
	default:
		content = "Unknown screen"
	}

	content = lipgloss.JoinVertical(lipgloss.Center, content, "", a.renderBreadcrumb())
	return a.centerContent(content)
}

// renderBreadcrumb shows where the user is below the screen box.
func (a *App) renderBreadcrumb() string {
	m := a.model
	parts := []string{tui.TitleStyle.Render(m.AppName())}
	if m.Nav.Screen() != nav.Dashboard && m.Nav.Screen() != nav.AccountSelection {
		parts = append(parts, tui.DimStyle.Render(nav.Dashboard.Title()))
	}
	parts = append(parts, tui.SelectedStyle.Render(m.Nav.Screen().Title()))

	out := parts[0]
	for _, p := range parts[1:] {
		out += tui.DimStyle.Render(" › ") + p
	}
	return out
}

// centerContent centers the given content both horizontally and vertically.
func (a *App) centerContent(content string) string {
	return lipgloss.Place(
		a.model.Width,
		a.model.Height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}
