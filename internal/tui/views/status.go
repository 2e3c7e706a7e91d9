package views

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/safewatch/safewatch/internal/alert"
	"github.com/safewatch/safewatch/internal/gateway"
	"github.com/safewatch/safewatch/internal/tui"
)

// SafetyStatus is the summary shown on the dashboard status card.
type SafetyStatus struct {
	Level   string
	Title   string
	Message string
}

// Summarize derives the safety status from the active alerts. Any active
// alert at Emergency or above escalates to danger regardless of count.
func Summarize(active []gateway.Alert, loading bool, err error) SafetyStatus {
	switch {
	case loading:
		return SafetyStatus{tui.LevelWarning, "Loading Status", "Checking system status..."}
	case err != nil && active == nil:
		return SafetyStatus{tui.LevelDanger, "Connection Error", "Unable to connect to safety monitoring system."}
	}

	n := len(active)
	levels := make([]alert.Severity, n)
	for i, a := range active {
		levels[i] = a.Severity
	}
	highest := alert.Highest(levels...)

	switch {
	case n == 0:
		return SafetyStatus{tui.LevelSafe, "All Clear", "All systems are functioning normally. No active alerts."}
	case n > 2 || highest.AtLeast(alert.Emergency):
		return SafetyStatus{tui.LevelDanger, "High Alert",
			fmt.Sprintf("%d active alert%s detected. Immediate attention required.", n, plural(n))}
	default:
		return SafetyStatus{tui.LevelWarning, "Caution",
			fmt.Sprintf("%d active alert%s detected. Monitor situation.", n, plural(n))}
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// Component states in the system status overlay.
const (
	ComponentOnline  = "online"
	ComponentWarning = "warning"
	ComponentOffline = "offline"
)

// Component is one row of the system status overlay.
type Component struct {
	Name   string
	State  string
	Detail string
}

// Components reports the state of each subsystem the dashboard depends on.
func Components(locationEnabled bool, contacts int, alertsErr error) []Component {
	out := make([]Component, 0, 4)

	network := Component{Name: "Network Connection", State: ComponentOnline, Detail: "Connected"}
	var gwErr *gateway.Error
	if errors.As(alertsErr, &gwErr) && gwErr.HTTPStatus == 0 {
		network = Component{Name: "Network Connection", State: ComponentOffline, Detail: "Server unreachable"}
	}

	alerts := Component{Name: "Alert System", State: ComponentOnline, Detail: "Monitoring"}
	if alertsErr != nil {
		alerts = Component{Name: "Alert System", State: ComponentOffline, Detail: gateway.UserMessage(alertsErr)}
	}

	location := Component{Name: "Location Services", State: ComponentOnline, Detail: "Enabled"}
	if !locationEnabled {
		location = Component{Name: "Location Services", State: ComponentWarning, Detail: "Manual entry only"}
	}

	contactRow := Component{Name: "Emergency Contacts", State: ComponentOnline,
		Detail: fmt.Sprintf("%d configured", contacts)}
	if contacts == 0 {
		contactRow = Component{Name: "Emergency Contacts", State: ComponentWarning, Detail: "None configured"}
	}

	return append(out, location, contactRow, alerts, network)
}

func componentLevel(state string) string {
	switch state {
	case ComponentOnline:
		return tui.LevelSafe
	case ComponentWarning:
		return tui.LevelWarning
	default:
		return tui.LevelDanger
	}
}
