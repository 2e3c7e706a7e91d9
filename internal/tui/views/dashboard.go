package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/safewatch/safewatch/internal/gateway"
	"github.com/safewatch/safewatch/internal/nav"
	"github.com/safewatch/safewatch/internal/tui"
)

type dashboardOverlay int

const (
	overlayNone dashboardOverlay = iota
	overlayDetail
	overlayStatus
	overlayLogout
)

// DashboardModel is the main screen for the selected account.
type DashboardModel struct {
	account  *gateway.Account
	alerts   []gateway.Alert
	contacts []gateway.Contact

	accountRead  readState
	alertsRead   readState
	contactsRead readState

	cursor    int
	overlay   dashboardOverlay
	resolving string
	notice    notice

	locationEnabled bool
	now             func() time.Time

	width  int
	height int

	ctrlCPending bool
}

// NewDashboardModel creates an empty dashboard.
func NewDashboardModel(width, height int, locationEnabled bool) DashboardModel {
	return DashboardModel{
		locationEnabled: locationEnabled,
		now:             time.Now,
		width:           width,
		height:          height,
	}
}

// Init returns the initial command for the dashboard.
func (m DashboardModel) Init() tea.Cmd {
	return nil
}

// Status returns the current safety summary.
func (m DashboardModel) Status() SafetyStatus {
	return Summarize(m.alerts, !m.alertsRead.loaded, m.alertsRead.err)
}

// Update handles messages for the dashboard.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tui.AccountLoadedMsg:
		m.accountRead.apply(msg.Err)
		if msg.Err == nil || msg.Account != nil {
			m.account = msg.Account
		}
		return m, nil

	case tui.AlertsLoadedMsg:
		m.alertsRead.apply(msg.Err)
		if msg.Err == nil || msg.Alerts != nil {
			m.alerts = msg.Alerts
			m.cursor = clampCursor(m.cursor, len(m.alerts))
		}
		return m, nil

	case tui.ContactsLoadedMsg:
		m.contactsRead.apply(msg.Err)
		if msg.Err == nil || msg.Contacts != nil {
			m.contacts = msg.Contacts
		}
		return m, nil

	case tui.AlertResolvedMsg:
		m.resolving = ""
		if msg.Err != nil {
			m.notice.set("Error", "Failed to resolve alert: "+gateway.UserMessage(msg.Err), true)
			return m, nil
		}
		m.overlay = overlayNone
		m.notice.set("Alert Resolved", "The alert has been marked as resolved.", false)
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m DashboardModel) handleKey(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	keys := tui.DefaultKeyMap

	if m.notice.active() {
		if key.Matches(msg, keys.Enter) || key.Matches(msg, keys.Back) {
			m.notice.clear()
		}
		return m, nil
	}

	switch m.overlay {
	case overlayDetail:
		switch {
		case key.Matches(msg, keys.Back):
			m.overlay = overlayNone
		case key.Matches(msg, keys.Resolve):
			return m.resolveSelected()
		}
		return m, nil

	case overlayStatus:
		if key.Matches(msg, keys.Back) || key.Matches(msg, keys.Status) || key.Matches(msg, keys.Enter) {
			m.overlay = overlayNone
		}
		return m, nil

	case overlayLogout:
		switch {
		case key.Matches(msg, keys.Confirm):
			m.overlay = overlayNone
			return m, emit(tui.NavigateMsg{Event: nav.Logout})
		case key.Matches(msg, keys.Cancel):
			m.overlay = overlayNone
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(m.alerts))
	case key.Matches(msg, keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(m.alerts))
	case key.Matches(msg, keys.Enter):
		if a, ok := m.selected(); ok {
			m.overlay = overlayDetail
			return m, emit(tui.ViewAlertMsg{ID: a.ID})
		}
	case key.Matches(msg, keys.Resolve):
		return m.resolveSelected()
	case key.Matches(msg, keys.Refresh):
		return m, emit(tui.RefreshMsg{})
	case key.Matches(msg, keys.History):
		return m, emit(tui.NavigateMsg{Event: nav.ViewHistory})
	case key.Matches(msg, keys.Contacts):
		return m, emit(tui.NavigateMsg{Event: nav.ViewContacts})
	case key.Matches(msg, keys.Emergency):
		return m, emit(tui.NavigateMsg{Event: nav.TriggerEmergency})
	case key.Matches(msg, keys.Status):
		m.overlay = overlayStatus
	case key.Matches(msg, keys.Logout):
		m.overlay = overlayLogout
	}
	return m, nil
}

func (m DashboardModel) selected() (gateway.Alert, bool) {
	if len(m.alerts) == 0 {
		return gateway.Alert{}, false
	}
	return m.alerts[clampCursor(m.cursor, len(m.alerts))], true
}

func (m DashboardModel) resolveSelected() (DashboardModel, tea.Cmd) {
	a, ok := m.selected()
	if !ok || a.IsResolved || m.resolving != "" {
		return m, nil
	}
	m.resolving = a.ID
	return m, emit(tui.ResolveAlertMsg{ID: a.ID})
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	var b strings.Builder

	b.WriteString(header("Dashboard", accountSubtitle(m.account)))
	b.WriteString("\n")
	if line := m.accountRead.render("account", m.account != nil); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	} else if m.accountRead.loaded && m.account == nil {
		b.WriteString(tui.ErrorStyle.Render("Account not found. Press L to select another account."))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderStatusCard())
	b.WriteString("\n\n")

	b.WriteString(tui.EmergencyButtonStyle.Render("! EMERGENCY ALERT (e)"))
	b.WriteString("\n\n")

	b.WriteString(m.renderAlerts())
	b.WriteString("\n\n")

	b.WriteString(tui.TitleStyle.Render("Quick Actions"))
	b.WriteString("\n")
	contacts := "Emergency Contacts"
	if m.contactsRead.loaded && m.contactsRead.err == nil {
		contacts = fmt.Sprintf("Emergency Contacts (%d)", len(m.contacts))
	}
	b.WriteString(fmt.Sprintf("  c: %s   h: Alert History   s: System Status", contacts))
	b.WriteString("\n")

	switch {
	case m.notice.active():
		b.WriteString("\n" + m.notice.render(m.width) + "\n")
	case m.overlay == overlayDetail:
		if a, ok := m.selected(); ok {
			b.WriteString("\n" + alertDetail(a, m.resolving == a.ID, m.width) + "\n")
		}
	case m.overlay == overlayStatus:
		b.WriteString("\n" + m.renderSystemStatus() + "\n")
	case m.overlay == overlayLogout:
		b.WriteString("\n" + tui.NoticeStyle.Render(
			tui.WarningStyle.Render("Logout")+"\n"+
				"Are you sure you want to logout and select a different account?\n"+
				tui.DimStyle.Render("y: Logout · n: Cancel")) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(footer(m.ctrlCPending,
		"↑/↓: Move", "Enter: Details", "x: Resolve", "r: Refresh", "L: Logout"))
	return frame(m.width, b.String())
}

func (m DashboardModel) renderStatusCard() string {
	st := m.Status()
	style := tui.LevelStyle(st.Level)
	card := style.Bold(true).Render(tui.LevelGlyph(st.Level)+" "+st.Title) + "\n" + st.Message
	return tui.CardStyle.BorderForeground(style.GetForeground()).Render(card)
}

func (m DashboardModel) renderAlerts() string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("Active Alerts"))
	b.WriteString("\n")

	if line := m.alertsRead.render("alerts", len(m.alerts) > 0); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.alertsRead.loaded && len(m.alerts) == 0 && m.alertsRead.err == nil {
		b.WriteString(tui.SuccessStyle.Render("✓ No active alerts"))
		return b.String()
	}
	now := m.now()
	for i, a := range m.alerts {
		b.WriteString(alertRow(a, i == m.cursor, now))
		if i < len(m.alerts)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m DashboardModel) renderSystemStatus() string {
	var b strings.Builder
	st := m.Status()
	b.WriteString(tui.LevelStyle(st.Level).Bold(true).Render("System Status: " + st.Title))
	b.WriteString("\n\n")
	for _, c := range Components(m.locationEnabled, len(m.contacts), m.alertsRead.err) {
		level := componentLevel(c.State)
		b.WriteString(fmt.Sprintf("%s %-20s %s\n",
			tui.LevelStyle(level).Render(tui.LevelGlyph(level)),
			c.Name,
			tui.DimStyle.Render(c.Detail)))
	}
	b.WriteString(tui.DimStyle.Render("esc: close"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Render(b.String())
}

// SetCtrlCPending sets the Ctrl+C pending state for display.
func (m *DashboardModel) SetCtrlCPending(pending bool) {
	m.ctrlCPending = pending
}
