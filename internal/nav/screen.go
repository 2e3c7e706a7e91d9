// Package nav holds the screen state machine: which screen is showing, which
// account it is scoped to, and the closed set of legal transitions.
package nav

// Screen is one of the five application screens.
type Screen int

const (
	AccountSelection Screen = iota
	Dashboard
	AlertHistory
	EmergencyContacts
	EmergencyAlert
)

// Screens lists every screen.
var Screens = []Screen{AccountSelection, Dashboard, AlertHistory, EmergencyContacts, EmergencyAlert}

func (s Screen) String() string {
	switch s {
	case AccountSelection:
		return "account-selection"
	case Dashboard:
		return "dashboard"
	case AlertHistory:
		return "alert-history"
	case EmergencyContacts:
		return "emergency-contacts"
	case EmergencyAlert:
		return "emergency-alert"
	default:
		return "unknown"
	}
}

// Title is the header text for the screen.
func (s Screen) Title() string {
	switch s {
	case AccountSelection:
		return "Select Account"
	case Dashboard:
		return "Dashboard"
	case AlertHistory:
		return "Alert History"
	case EmergencyContacts:
		return "Emergency Contacts"
	case EmergencyAlert:
		return "Emergency Alert"
	default:
		return ""
	}
}

// Event is a user or I/O completion that may move between screens.
type Event int

const (
	AccountChosen Event = iota
	ViewHistory
	ViewContacts
	TriggerEmergency
	Logout
	Back
)

// Events lists every event.
var Events = []Event{AccountChosen, ViewHistory, ViewContacts, TriggerEmergency, Logout, Back}

func (e Event) String() string {
	switch e {
	case AccountChosen:
		return "account-chosen"
	case ViewHistory:
		return "view-history"
	case ViewContacts:
		return "view-contacts"
	case TriggerEmergency:
		return "trigger-emergency"
	case Logout:
		return "logout"
	case Back:
		return "back"
	default:
		return "unknown"
	}
}

// transitions is the complete table. Pairs not listed are ignored.
var transitions = map[Screen]map[Event]Screen{
	AccountSelection: {
		AccountChosen: Dashboard,
	},
	Dashboard: {
		ViewHistory:      AlertHistory,
		ViewContacts:     EmergencyContacts,
		TriggerEmergency: EmergencyAlert,
		Logout:           AccountSelection,
	},
	AlertHistory:      {Back: Dashboard},
	EmergencyContacts: {Back: Dashboard},
	EmergencyAlert:    {Back: Dashboard},
}

// Next returns the target of ev from s, and false when the pair is not a
// legal transition.
func Next(s Screen, ev Event) (Screen, bool) {
	to, ok := transitions[s][ev]
	if !ok {
		return s, false
	}
	return to, true
}
