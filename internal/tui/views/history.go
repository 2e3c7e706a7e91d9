package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/safewatch/safewatch/internal/gateway"
	"github.com/safewatch/safewatch/internal/nav"
	"github.com/safewatch/safewatch/internal/tui"
)

// HistoryFilter narrows the alert history list.
type HistoryFilter int

const (
	FilterAll HistoryFilter = iota
	FilterActive
	FilterResolved
)

var historyFilters = []HistoryFilter{FilterAll, FilterActive, FilterResolved}

func (f HistoryFilter) String() string {
	switch f {
	case FilterActive:
		return "active"
	case FilterResolved:
		return "resolved"
	default:
		return "all"
	}
}

func (f HistoryFilter) label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterResolved:
		return "Resolved"
	default:
		return "All"
	}
}

func (f HistoryFilter) match(a gateway.Alert) bool {
	switch f {
	case FilterActive:
		return !a.IsResolved
	case FilterResolved:
		return a.IsResolved
	default:
		return true
	}
}

// FilterAlerts returns the alerts matching f, preserving order.
func FilterAlerts(alerts []gateway.Alert, f HistoryFilter) []gateway.Alert {
	out := make([]gateway.Alert, 0, len(alerts))
	for _, a := range alerts {
		if f.match(a) {
			out = append(out, a)
		}
	}
	return out
}

// HistoryModel lists past and current alerts for the account.
type HistoryModel struct {
	account *gateway.Account
	alerts  []gateway.Alert
	read    readState

	filter    HistoryFilter
	cursor    int
	detail    bool
	resolving string
	notice    notice

	viewport viewport.Model
	now      func() time.Time

	width  int
	height int

	ctrlCPending bool
}

// NewHistoryModel creates an empty history screen.
func NewHistoryModel(width, height int) HistoryModel {
	return HistoryModel{
		viewport: viewport.New(boxWidth(width)-6, historyHeight(height)),
		now:      time.Now,
		width:    width,
		height:   height,
	}
}

func historyHeight(height int) int {
	return max(height-16, 5)
}

// Init returns the initial command for the history screen.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Visible returns the alerts shown under the current filter.
func (m HistoryModel) Visible() []gateway.Alert {
	return FilterAlerts(m.alerts, m.filter)
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (HistoryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tui.AccountLoadedMsg:
		if msg.Err == nil || msg.Account != nil {
			m.account = msg.Account
		}
		return m, nil

	case tui.AlertsLoadedMsg:
		m.read.apply(msg.Err)
		if msg.Err == nil || msg.Alerts != nil {
			m.alerts = msg.Alerts
			m.cursor = clampCursor(m.cursor, len(m.Visible()))
		}
		m.syncViewport()
		return m, nil

	case tui.AlertResolvedMsg:
		m.resolving = ""
		if msg.Err != nil {
			m.notice.set("Error", "Failed to resolve alert: "+gateway.UserMessage(msg.Err), true)
			return m, nil
		}
		m.detail = false
		m.notice.set("Alert Resolved", "The alert has been marked as resolved.", false)
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = boxWidth(m.width) - 6
		m.viewport.Height = historyHeight(m.height)
		m.syncViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m HistoryModel) handleKey(msg tea.KeyMsg) (HistoryModel, tea.Cmd) {
	keys := tui.DefaultKeyMap

	if m.notice.active() {
		if key.Matches(msg, keys.Enter) || key.Matches(msg, keys.Back) {
			m.notice.clear()
		}
		return m, nil
	}

	if m.detail {
		switch {
		case key.Matches(msg, keys.Back):
			m.detail = false
		case key.Matches(msg, keys.Resolve):
			return m.resolveSelected()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Back):
		return m, emit(tui.NavigateMsg{Event: nav.Back})
	case key.Matches(msg, keys.Tab):
		m.filter = historyFilters[(int(m.filter)+1)%len(historyFilters)]
		m.cursor = 0
	case key.Matches(msg, keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(m.Visible()))
	case key.Matches(msg, keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(m.Visible()))
	case key.Matches(msg, keys.Enter):
		if a, ok := m.selected(); ok {
			m.detail = true
			return m, emit(tui.ViewAlertMsg{ID: a.ID})
		}
	case key.Matches(msg, keys.Resolve):
		return m.resolveSelected()
	case key.Matches(msg, keys.Refresh):
		return m, emit(tui.RefreshMsg{})
	}
	m.syncViewport()
	return m, nil
}

func (m HistoryModel) selected() (gateway.Alert, bool) {
	visible := m.Visible()
	if len(visible) == 0 {
		return gateway.Alert{}, false
	}
	return visible[clampCursor(m.cursor, len(visible))], true
}

func (m HistoryModel) resolveSelected() (HistoryModel, tea.Cmd) {
	a, ok := m.selected()
	if !ok || a.IsResolved || m.resolving != "" {
		return m, nil
	}
	m.resolving = a.ID
	return m, emit(tui.ResolveAlertMsg{ID: a.ID})
}

// syncViewport re-renders the list and keeps the cursor row visible.
func (m *HistoryModel) syncViewport() {
	visible := m.Visible()
	now := m.now()
	rows := make([]string, len(visible))
	for i, a := range visible {
		rows[i] = alertRow(a, i == m.cursor, now)
	}
	m.viewport.SetContent(strings.Join(rows, "\n"))
	switch {
	case m.cursor < m.viewport.YOffset:
		m.viewport.SetYOffset(m.cursor)
	case m.cursor >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m HistoryModel) renderChips() string {
	chips := make([]string, len(historyFilters))
	for i, f := range historyFilters {
		text := fmt.Sprintf("%s (%d)", f.label(), len(FilterAlerts(m.alerts, f)))
		if f == m.filter {
			chips[i] = tui.ActiveChipStyle.Render(text)
		} else {
			chips[i] = tui.InactiveChipStyle.Render(text)
		}
	}
	return strings.Join(chips, " ")
}

// View renders the history screen.
func (m HistoryModel) View() string {
	var b strings.Builder

	b.WriteString(header("Alert History", accountSubtitle(m.account)))
	b.WriteString("\n\n")
	b.WriteString(m.renderChips())
	b.WriteString("\n\n")

	if line := m.read.render("alerts", len(m.alerts) > 0); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}

	switch {
	case len(m.Visible()) > 0:
		b.WriteString(m.viewport.View())
	case m.read.loaded && (m.read.err == nil || len(m.alerts) > 0):
		empty := fmt.Sprintf("No %s alerts found", m.filter)
		if m.filter == FilterAll {
			empty = "No alerts found"
		}
		b.WriteString(tui.DimStyle.Render(empty))
	}
	b.WriteString("\n")

	switch {
	case m.notice.active():
		b.WriteString("\n" + m.notice.render(m.width) + "\n")
	case m.detail:
		if a, ok := m.selected(); ok {
			b.WriteString("\n" + alertDetail(a, m.resolving == a.ID, m.width) + "\n")
		}
	}
	b.WriteString("\n")

	b.WriteString(footer(m.ctrlCPending,
		"Tab: Filter", "↑/↓: Move", "Enter: Details", "x: Resolve", "r: Refresh", "Esc: Back"))
	return frame(m.width, b.String())
}

// SetCtrlCPending sets the Ctrl+C pending state for display.
func (m *HistoryModel) SetCtrlCPending(pending bool) {
	m.ctrlCPending = pending
}
