package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/safewatch/safewatch/internal/gateway"
	"github.com/safewatch/safewatch/internal/tui"
)

// ============================================================================
// AccountItem
// ============================================================================

// AccountItem implements list.Item for the account list.
type AccountItem struct {
	account gateway.Account
}

// Title returns the account name.
func (i AccountItem) Title() string {
	return i.account.Name
}

// Description returns contact details and activity status.
func (i AccountItem) Description() string {
	status := i.account.Status()
	return fmt.Sprintf("%s · %s · %d contacts · %s",
		i.account.Email,
		i.account.Phone,
		i.account.ContactCount(),
		tui.AccountStatusStyle(status).Render(status),
	)
}

// FilterValue returns the value used for filtering in the list.
func (i AccountItem) FilterValue() string {
	return i.account.Name
}

// ============================================================================
// AccountsModel
// ============================================================================

// AccountsModel is the account selection screen.
type AccountsModel struct {
	list     list.Model
	accounts []gateway.Account
	read     readState
	width    int
	height   int

	ctrlCPending bool
}

// NewAccountsModel creates an empty account selection screen.
func NewAccountsModel(width, height int) AccountsModel {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("#D32F2F")).
		BorderForeground(lipgloss.Color("#D32F2F"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("#9CA3AF"))

	l := list.New(nil, delegate, boxWidth(width)-6, listHeight(height))
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return AccountsModel{list: l, width: width, height: height}
}

func listHeight(height int) int {
	return max(height-14, 6)
}

// Init returns the initial command for the account screen.
func (m AccountsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the account screen.
func (m AccountsModel) Update(msg tea.Msg) (AccountsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tui.AccountsLoadedMsg:
		m.read.apply(msg.Err)
		if msg.Err == nil || msg.Accounts != nil {
			m.accounts = msg.Accounts
			items := make([]list.Item, len(msg.Accounts))
			for i, a := range msg.Accounts {
				items[i] = AccountItem{account: a}
			}
			cmd := m.list.SetItems(items)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(boxWidth(m.width)-6, listHeight(m.height))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, tui.DefaultKeyMap.Enter):
			if item, ok := m.list.SelectedItem().(AccountItem); ok {
				return m, emit(tui.SelectAccountMsg{AccountID: item.account.ID})
			}
			return m, nil
		case key.Matches(msg, tui.DefaultKeyMap.Refresh):
			return m, emit(tui.RefreshMsg{})
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the account selection screen.
func (m AccountsModel) View() string {
	var b strings.Builder

	b.WriteString(header("Select Account", "Choose an account to continue"))
	b.WriteString("\n\n")

	if line := m.read.render("accounts", len(m.accounts) > 0); line != "" {
		b.WriteString(line)
		b.WriteString("\n\n")
	}

	switch {
	case len(m.accounts) > 0:
		b.WriteString(m.list.View())
	case m.read.loaded && m.read.err == nil:
		b.WriteString(tui.DimStyle.Render("No accounts found. Please contact your administrator."))
	}
	b.WriteString("\n\n")

	b.WriteString(footer(m.ctrlCPending, "↑/↓: Move", "Enter: Select", "r: Refresh"))
	return frame(m.width, b.String())
}

// SetCtrlCPending sets the Ctrl+C pending state for display.
func (m *AccountsModel) SetCtrlCPending(pending bool) {
	m.ctrlCPending = pending
}
