package app

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/safewatch/safewatch/internal/alert"
	"github.com/safewatch/safewatch/internal/config"
	"github.com/safewatch/safewatch/internal/gateway"
	"github.com/safewatch/safewatch/internal/log"
	"github.com/safewatch/safewatch/internal/nav"
	"github.com/safewatch/safewatch/internal/tui"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Accounts(ctx context.Context, opts ...gateway.ReadOption) ([]gateway.Account, error) {
	args := m.Called(len(opts) > 0)
	return args.Get(0).([]gateway.Account), args.Error(1)
}

func (m *mockGateway) Account(ctx context.Context, id string, opts ...gateway.ReadOption) (*gateway.Account, error) {
	args := m.Called(id)
	acct, _ := args.Get(0).(*gateway.Account)
	return acct, args.Error(1)
}

func (m *mockGateway) Alerts(ctx context.Context, f gateway.AlertFilter, opts ...gateway.ReadOption) ([]gateway.Alert, error) {
	args := m.Called(f.AccountID)
	return args.Get(0).([]gateway.Alert), args.Error(1)
}

func (m *mockGateway) Contacts(ctx context.Context, accountID string, opts ...gateway.ReadOption) ([]gateway.Contact, error) {
	args := m.Called(accountID)
	return args.Get(0).([]gateway.Contact), args.Error(1)
}

func (m *mockGateway) CreateAlert(ctx context.Context, in gateway.CreateAlertInput) (*gateway.Alert, error) {
	args := m.Called(in)
	a, _ := args.Get(0).(*gateway.Alert)
	return a, args.Error(1)
}

func (m *mockGateway) ResolveAlert(ctx context.Context, id string) (*gateway.Alert, error) {
	args := m.Called(id)
	a, _ := args.Get(0).(*gateway.Alert)
	return a, args.Error(1)
}

func (m *mockGateway) CreateContact(ctx context.Context, accountID string, in gateway.ContactInput) (*gateway.Contact, error) {
	args := m.Called(accountID, in)
	c, _ := args.Get(0).(*gateway.Contact)
	return c, args.Error(1)
}

func (m *mockGateway) UpdateContact(ctx context.Context, id string, in gateway.ContactInput) (*gateway.Contact, error) {
	args := m.Called(id, in)
	c, _ := args.Get(0).(*gateway.Contact)
	return c, args.Error(1)
}

func (m *mockGateway) DeleteContact(ctx context.Context, id string) error {
	return m.Called(id).Error(0)
}

type memSession struct {
	id string
}

func (s *memSession) Load(context.Context) (string, bool) { return s.id, s.id != "" }
func (s *memSession) Save(_ context.Context, id string)    { s.id = id }
func (s *memSession) Clear(context.Context)                { s.id = "" }

// drain runs cmd and every command it batches, returning the messages.
// Tick commands are skipped.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// feed delivers msgs to the app and follows every command they produce.
func feed(a *App, msgs ...tea.Msg) {
	for len(msgs) > 0 {
		msg := msgs[0]
		msgs = msgs[1:]
		_, cmd := a.Update(msg)
		msgs = append(msgs, drain(cmd)...)
	}
}

func newTestApp(t *testing.T, gw gateway.Gateway, sess *memSession) (*App, *log.Logger) {
	t.Helper()
	logger, err := log.NewLogger(t.TempDir())
	require.NoError(t, err)
	a := New(tui.Deps{
		Config:  config.DefaultConfig(),
		Gateway: gw,
		Session: sess,
		Logger:  logger,
	})
	return a, logger
}

func stubDashboard(gw *mockGateway, id string) {
	gw.On("Account", id).Return(&gateway.Account{ID: id, Name: "Jordan Reyes"}, nil)
	gw.On("Alerts", id).Return([]gateway.Alert{}, nil)
	gw.On("Contacts", id).Return([]gateway.Contact{}, nil)
}

func TestBootWithoutSessionShowsAccounts(t *testing.T) {
	gw := &mockGateway{}
	gw.On("Accounts", false).Return([]gateway.Account{{ID: "u1", Name: "Jordan Reyes"}}, nil).Once()

	a, _ := newTestApp(t, gw, &memSession{})
	assert.Contains(t, a.View(), "Loading...")

	feed(a, tui.SessionLoadedMsg{})
	assert.Equal(t, nav.AccountSelection, a.Model().Nav.Screen())
	assert.Contains(t, a.View(), "Jordan Reyes")
	gw.AssertExpectations(t)
}

func TestEventsBeforeBootAreIgnored(t *testing.T) {
	gw := &mockGateway{}
	a, _ := newTestApp(t, gw, &memSession{})

	feed(a, tui.NavigateMsg{Event: nav.ViewHistory}, tui.SelectAccountMsg{AccountID: "u1"})
	assert.Equal(t, nav.Loading, a.Model().Nav.Phase())
	gw.AssertNotCalled(t, "Accounts", mock.Anything)
}

func TestSelectAccountMountsDashboard(t *testing.T) {
	gw := &mockGateway{}
	gw.On("Accounts", false).Return([]gateway.Account{{ID: "u1", Name: "Jordan Reyes"}}, nil)
	stubDashboard(gw, "u1")
	sess := &memSession{}

	a, logger := newTestApp(t, gw, sess)
	feed(a, tui.SessionLoadedMsg{}, tui.SelectAccountMsg{AccountID: "u1"})

	assert.Equal(t, nav.Dashboard, a.Model().Nav.Screen())
	assert.Equal(t, "u1", sess.id)
	assert.Contains(t, a.View(), "No active alerts")

	events, err := logger.ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, log.EventAccountSelected, events[0].Event)
	assert.Equal(t, log.EventDashboardAccessed, events[1].Event)
}

func TestStaleResultsDropped(t *testing.T) {
	gw := &mockGateway{}
	stubDashboard(gw, "u1")
	a, _ := newTestApp(t, gw, &memSession{id: "u1"})
	feed(a, tui.SessionLoadedMsg{AccountID: "u1", OK: true})
	oldGen := a.Model().Nav.Generation()

	gw.On("Alerts", "u1").Return([]gateway.Alert{}, nil)
	feed(a, tui.NavigateMsg{Event: nav.ViewHistory})
	require.Equal(t, nav.AlertHistory, a.Model().Nav.Screen())

	late := tui.AlertsLoadedMsg{Request: tui.Request{Gen: oldGen}, Alerts: []gateway.Alert{
		{ID: "late", Type: alert.TornadoWarning, Severity: alert.Critical},
	}}
	feed(a, late)
	assert.NotContains(t, a.View(), "Tornado Warning")
}

func TestOlderLoadDoesNotOverwriteNewer(t *testing.T) {
	gw := &mockGateway{}
	gw.On("Account", "u1").Return(&gateway.Account{ID: "u1", Name: "Jordan Reyes"}, nil)
	gw.On("Contacts", "u1").Return([]gateway.Contact{}, nil)
	gw.On("Alerts", "u1").Return([]gateway.Alert{}, nil).Once()
	a, _ := newTestApp(t, gw, &memSession{id: "u1"})
	feed(a, tui.SessionLoadedMsg{AccountID: "u1", OK: true})

	_, older := a.Update(tui.RefreshMsg{})
	_, newer := a.Update(tui.RefreshMsg{})

	// The newer load runs first and sees the alert already resolved.
	gw.On("Alerts", "u1").Return([]gateway.Alert{
		{ID: "a1", Type: alert.FloodWarning, Severity: alert.Warning},
	}, nil).Once()
	gw.On("Alerts", "u1").Return([]gateway.Alert{
		{ID: "a1", Type: alert.FloodWarning, Severity: alert.Warning},
		{ID: "a2", Type: alert.TornadoWarning, Severity: alert.Critical},
	}, nil).Once()
	newMsgs := drain(newer)
	oldMsgs := drain(older)

	feed(a, newMsgs...)
	feed(a, oldMsgs...)
	view := a.View()
	assert.Contains(t, view, "Flood Warning")
	assert.NotContains(t, view, "Tornado Warning")
	gw.AssertExpectations(t)
}

func TestSubmitAlertInjectsAccount(t *testing.T) {
	gw := &mockGateway{}
	stubDashboard(gw, "u1")
	created := &gateway.Alert{ID: "a9", Type: alert.FloodWarning, Severity: alert.Warning, UserID: "u1"}
	gw.On("CreateAlert", mock.MatchedBy(func(in gateway.CreateAlertInput) bool {
		return in.UserID == "u1" && in.Type == alert.FloodWarning
	})).Return(created, nil).Once()

	a, logger := newTestApp(t, gw, &memSession{id: "u1"})
	feed(a, tui.SessionLoadedMsg{AccountID: "u1", OK: true}, tui.NavigateMsg{Event: nav.TriggerEmergency})
	require.Equal(t, nav.EmergencyAlert, a.Model().Nav.Screen())

	feed(a, tui.SubmitAlertMsg{Input: gateway.CreateAlertInput{
		Type:     alert.FloodWarning,
		Severity: alert.Warning,
		Message:  "Water rising",
	}})
	gw.AssertExpectations(t)
	assert.Contains(t, a.View(), "Emergency Alert Sent")

	activity, err := logger.RecentActivity("u1", 10)
	require.NoError(t, err)
	var names []string
	for _, ev := range activity {
		names = append(names, ev.Event)
	}
	assert.Contains(t, names, log.EventEmergencyTriggered)

	// Dismissing the notice returns to the dashboard.
	feed(a, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, nav.Dashboard, a.Model().Nav.Screen())
}

func TestResolveRefetchesScreen(t *testing.T) {
	gw := &mockGateway{}
	gw.On("Account", "u1").Return(&gateway.Account{ID: "u1"}, nil)
	gw.On("Contacts", "u1").Return([]gateway.Contact{}, nil)
	gw.On("Alerts", "u1").Return([]gateway.Alert{{ID: "a1", Type: alert.FloodWarning, Severity: alert.Warning}}, nil)
	gw.On("ResolveAlert", "a1").Return(&gateway.Alert{ID: "a1", IsResolved: true}, nil).Once()

	a, _ := newTestApp(t, gw, &memSession{id: "u1"})
	feed(a, tui.SessionLoadedMsg{AccountID: "u1", OK: true})
	gw.AssertNumberOfCalls(t, "Alerts", 1)

	feed(a, tui.ResolveAlertMsg{ID: "a1"})
	gw.AssertNumberOfCalls(t, "ResolveAlert", 1)
	gw.AssertNumberOfCalls(t, "Alerts", 2)
}

func TestRefreshBypassesCache(t *testing.T) {
	gw := &mockGateway{}
	gw.On("Accounts", false).Return([]gateway.Account{}, nil).Once()
	gw.On("Accounts", true).Return([]gateway.Account{}, nil).Once()

	a, _ := newTestApp(t, gw, &memSession{})
	feed(a, tui.SessionLoadedMsg{}, tui.RefreshMsg{})
	gw.AssertExpectations(t)
}

func TestDoubleCtrlCQuits(t *testing.T) {
	a, _ := newTestApp(t, &mockGateway{}, &memSession{})
	ctrlC := tea.KeyMsg{Type: tea.KeyCtrlC}

	_, cmd := a.Update(ctrlC)
	require.NotNil(t, cmd)
	assert.True(t, a.Model().CtrlCPending)

	_, cmd = a.Update(ctrlC)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
