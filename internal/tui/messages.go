package tui

import (
	"github.com/safewatch/safewatch/internal/device"
	"github.com/safewatch/safewatch/internal/gateway"
	"github.com/safewatch/safewatch/internal/nav"
)

// ============================================================================
// Boot
// ============================================================================

// SessionLoadedMsg carries the result of the boot-time session lookup.
type SessionLoadedMsg struct {
	AccountID string
	OK        bool
}

// CtrlCResetMsg clears the pending Ctrl+C confirmation.
type CtrlCResetMsg struct{}

// ============================================================================
// Data results
//
// Every result carries the mount generation it was requested under. Results
// from an older generation are dropped.
// ============================================================================

// Request identifies one screen load. Seq grows with every load, so of two
// results for the same query the one with the lower Seq is older.
type Request struct {
	Gen uint64
	Seq uint64
}

// AccountsLoadedMsg carries the account list.
type AccountsLoadedMsg struct {
	Request
	Accounts []gateway.Account
	Err      error
}

// AccountLoadedMsg carries the selected account's details.
type AccountLoadedMsg struct {
	Request
	Account *gateway.Account
	Err     error
}

// AlertsLoadedMsg carries an alert list.
type AlertsLoadedMsg struct {
	Request
	Alerts []gateway.Alert
	Err    error
}

// ContactsLoadedMsg carries the contact list.
type ContactsLoadedMsg struct {
	Request
	Contacts []gateway.Contact
	Err      error
}

// AlertResolvedMsg reports a resolve mutation.
type AlertResolvedMsg struct {
	Gen   uint64
	Alert *gateway.Alert
	Err   error
}

// AlertCreatedMsg reports an emergency alert submission.
type AlertCreatedMsg struct {
	Gen   uint64
	Alert *gateway.Alert
	Err   error
}

// ContactSavedMsg reports a create or update.
type ContactSavedMsg struct {
	Gen     uint64
	Contact *gateway.Contact
	Created bool
	Err     error
}

// ContactDeletedMsg reports a delete.
type ContactDeletedMsg struct {
	Gen uint64
	ID  string
	Err error
}

// LocationMsg reports a position lookup.
type LocationMsg struct {
	Gen      uint64
	Position device.Position
	Denied   bool
	Err      error
}

// CallPlacedMsg reports a telephony launch.
type CallPlacedMsg struct {
	URI string
	Err error
}

// ============================================================================
// Intents emitted by views
// ============================================================================

// NavigateMsg asks the controller to apply a navigation event.
type NavigateMsg struct {
	Event nav.Event
}

// SelectAccountMsg chooses an account.
type SelectAccountMsg struct {
	AccountID string
}

// RefreshMsg re-issues the current screen's queries.
type RefreshMsg struct{}

// ResolveAlertMsg asks to mark an alert resolved.
type ResolveAlertMsg struct {
	ID string
}

// ViewAlertMsg records that an alert's details were opened.
type ViewAlertMsg struct {
	ID string
}

// SubmitAlertMsg sends an emergency alert.
type SubmitAlertMsg struct {
	Input gateway.CreateAlertInput
}

// SaveContactMsg creates a contact when ID is empty, otherwise updates it.
type SaveContactMsg struct {
	ID    string
	Input gateway.ContactInput
}

// DeleteContactMsg removes a contact.
type DeleteContactMsg struct {
	ID string
}

// CallContactMsg launches a phone call.
type CallContactMsg struct {
	Phone string
}

// LocateMsg requests the current position.
type LocateMsg struct{}
