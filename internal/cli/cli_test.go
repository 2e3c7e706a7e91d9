package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safewatch/safewatch/internal/devserver"
	"github.com/safewatch/safewatch/internal/gateway"
	"github.com/safewatch/safewatch/internal/testutil"
)

// run executes the command tree against home and returns stdout.
func run(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--home", home}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seededHome(t *testing.T) (*devserver.Backend, string) {
	t.Helper()
	backend, url := testutil.SeededServer(t)
	return backend, testutil.HomeFor(t, url)
}

func TestAccountsListsSeededAccounts(t *testing.T) {
	_, home := seededHome(t)

	out, err := run(t, home, "accounts")
	require.NoError(t, err)
	assert.Contains(t, out, "Jordan Reyes")
	assert.Contains(t, out, "Sam Patel")
	assert.Contains(t, out, "Riley Chen")
	assert.Contains(t, out, "2 contacts")
}

func TestSelectMarksAccount(t *testing.T) {
	_, home := seededHome(t)

	out, err := run(t, home, "select", "u1")
	require.NoError(t, err)
	assert.Contains(t, out, "Selected Jordan Reyes (u1)")

	out, err = run(t, home, "select", "u1")
	require.NoError(t, err)
	assert.Contains(t, out, "already selected")

	out, err = run(t, home, "accounts")
	require.NoError(t, err)
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "u1") {
			assert.True(t, strings.HasPrefix(line, "*"), line)
		}
	}
}

func TestSelectUnknownAccount(t *testing.T) {
	_, home := seededHome(t)

	_, err := run(t, home, "select", "nobody")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account nobody not found")
}

func TestCommandsNeedAccount(t *testing.T) {
	_, home := seededHome(t)

	for _, args := range [][]string{
		{"alerts"},
		{"status"},
		{"contacts", "list"},
		{"send", "--type", "FLOOD_WARNING", "--severity", "WARNING", "--location", "Main St"},
	} {
		_, err := run(t, home, args...)
		assert.ErrorIs(t, err, errNoAccount, strings.Join(args, " "))
	}
}

func TestStatusSummarizesActiveAlerts(t *testing.T) {
	_, home := seededHome(t)
	_, err := run(t, home, "select", "u1")
	require.NoError(t, err)

	out, err := run(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Jordan Reyes")
	assert.Contains(t, out, "Caution")
	assert.Contains(t, out, "2 active alerts detected. Monitor situation.")
	assert.Contains(t, out, "Flood Warning")
	assert.Contains(t, out, "Emergency Contacts")
	assert.NotContains(t, out, "Road Closure")
}

func TestStatusEscalatesOnEmergency(t *testing.T) {
	_, home := seededHome(t)
	_, err := run(t, home, "select", "u2")
	require.NoError(t, err)

	out, err := run(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "High Alert")
	assert.Contains(t, out, "1 active alert detected. Immediate attention required.")
}

func TestAlertsFilters(t *testing.T) {
	_, home := seededHome(t)
	_, err := run(t, home, "select", "u1")
	require.NoError(t, err)

	out, err := run(t, home, "alerts")
	require.NoError(t, err)
	assert.Contains(t, out, "Flood Warning")
	assert.Contains(t, out, "Power Outage")
	assert.NotContains(t, out, "Road Closure")

	out, err = run(t, home, "alerts", "--resolved")
	require.NoError(t, err)
	assert.Contains(t, out, "Road Closure")
	assert.NotContains(t, out, "Flood Warning")

	out, err = run(t, home, "alerts", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Road Closure")
	assert.Contains(t, out, "Flood Warning")

	_, err = run(t, home, "alerts", "--all", "--resolved")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestAlertsEmpty(t *testing.T) {
	_, home := seededHome(t)
	_, err := run(t, home, "select", "u3")
	require.NoError(t, err)

	out, err := run(t, home, "alerts")
	require.NoError(t, err)
	assert.Contains(t, out, "No active alerts found")
}

func TestSendCreatesAlertAndRefreshesList(t *testing.T) {
	backend, home := seededHome(t)
	_, err := run(t, home, "select", "u1")
	require.NoError(t, err)

	// Prime the cache so the send has something to invalidate.
	_, err = run(t, home, "alerts")
	require.NoError(t, err)
	listCalls := backend.Calls(gateway.ProcAlertsGetAll)

	out, err := run(t, home, "send", "--type", "WATER_EMERGENCY", "--severity", "CRITICAL", "--location", "12 Oak Ave")
	require.NoError(t, err)
	assert.Contains(t, out, "Emergency Alert Sent")
	assert.Equal(t, 1, backend.Calls(gateway.ProcAlertsCreate))

	out, err = run(t, home, "alerts")
	require.NoError(t, err)
	assert.Greater(t, backend.Calls(gateway.ProcAlertsGetAll), listCalls, "send must outdate the persisted list")
	assert.Contains(t, out, "Water Emergency - Critical level alert at 12 Oak Ave")

	out, err = run(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "3 active alerts detected. Immediate attention required.")

	out, err = run(t, home, "activity")
	require.NoError(t, err)
	assert.Contains(t, out, "emergency_triggered")
	assert.Contains(t, out, "alert=")
}

func TestSendValidation(t *testing.T) {
	backend, home := seededHome(t)
	_, err := run(t, home, "select", "u1")
	require.NoError(t, err)

	_, err = run(t, home, "send", "--type", "FLOOD_WARNING", "--location", "Main St")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "emergency type and severity")

	_, err = run(t, home, "send", "--type", "FLOOD_WARNING", "--severity", "WARNING")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "current location")

	_, err = run(t, home, "send", "--type", "FLOOD_WARNING", "--severity", "WARNING", "--locate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "location permission required")

	assert.Zero(t, backend.Calls(gateway.ProcAlertsCreate))
}

func TestResolveMovesAlertToHistory(t *testing.T) {
	backend, home := seededHome(t)
	_, err := run(t, home, "select", "u2")
	require.NoError(t, err)

	active := false
	alerts, err := gateway.New(gateway.Options{BaseURL: serverFor(t, home)}).Alerts(context.Background(),
		gateway.AlertFilter{AccountID: "u2", Resolved: &active})
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	out, err := run(t, home, "resolve", alerts[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Resolved Wildfire Alert")
	assert.Equal(t, 1, backend.Calls(gateway.ProcAlertsResolve))

	out, err = run(t, home, "alerts")
	require.NoError(t, err)
	assert.Contains(t, out, "No active alerts found")
}

func TestContactsLifecycle(t *testing.T) {
	_, home := seededHome(t)
	_, err := run(t, home, "select", "u3")
	require.NoError(t, err)

	out, err := run(t, home, "contacts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No emergency contacts yet")

	_, err = run(t, home, "contacts", "add", "--name", "Alex")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name and phone number are required")

	out, err = run(t, home, "contacts", "add", "--name", "Alex Chen", "--phone", "+1-555-0111", "--relation", "Brother")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Alex Chen")
	id := strings.TrimSuffix(out[strings.LastIndex(out, "(")+1:], ")\n")
	require.NotEmpty(t, id)

	out, err = run(t, home, "contacts", "update", id, "--phone", "+1-555-0112")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated Alex Chen")

	out, err = run(t, home, "contacts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "+1-555-0112")
	assert.Contains(t, out, "Brother", "unset flags keep their value")

	_, err = run(t, home, "contacts", "delete", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	out, err = run(t, home, "contacts", "delete", id, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted")

	out, err = run(t, home, "contacts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No emergency contacts yet")
}

func TestLogoutForgetsAccount(t *testing.T) {
	_, home := seededHome(t)

	out, err := run(t, home, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "No account selected.")

	_, err = run(t, home, "select", "u1")
	require.NoError(t, err)
	out, err = run(t, home, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")

	_, err = run(t, home, "alerts")
	assert.ErrorIs(t, err, errNoAccount)

	out, err = run(t, home, "activity", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "account_selected")
	assert.Contains(t, out, "logout")
}

func TestServerFlagOverridesConfig(t *testing.T) {
	_, url := testutil.SeededServer(t)
	home := testutil.TempHome(t, map[string]string{
		".safewatch/config.yaml": testutil.ConfigYAML("http://127.0.0.1:1/trpc"),
	})

	out, err := run(t, home, "--server", url, "accounts")
	require.NoError(t, err)
	assert.Contains(t, out, "Jordan Reyes")
}

func TestMalformedConfigIsAnError(t *testing.T) {
	home := testutil.TempHome(t, map[string]string{
		".safewatch/config.yaml": "server: [unterminated",
	})

	_, err := run(t, home, "accounts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

// serverFor reads back the backend URL HomeFor wrote.
func serverFor(t *testing.T, home string) string {
	t.Helper()
	cfg, err := loadConfig(home)
	require.NoError(t, err)
	return cfg.ServerURL()
}
