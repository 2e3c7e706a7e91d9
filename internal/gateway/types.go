package gateway

import (
	"strings"
	"time"

	"github.com/safewatch/safewatch/internal/alert"
)

// Procedure names exposed by the backend router.
const (
	ProcUsersGetAll       = "users.getAll"
	ProcUsersGetByID      = "users.getById"
	ProcAlertsGetAll      = "alerts.getAll"
	ProcAlertsCreate      = "alerts.create"
	ProcAlertsResolve     = "alerts.resolve"
	ProcContactsGetByUser = "emergencyContacts.getByUserId"
	ProcContactsCreate    = "emergencyContacts.create"
	ProcContactsUpdate    = "emergencyContacts.update"
	ProcContactsDelete    = "emergencyContacts.delete"
)

// Account is a backend user record. Read-only from the client's side.
type Account struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Phone    string     `json:"phone"`
	IsActive bool       `json:"isActive"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
	Count    struct {
		EmergencyContacts int `json:"emergencyContacts"`
		Alerts            int `json:"alerts"`
	} `json:"_count"`
}

// ContactCount returns the number of emergency contacts on the account.
func (a Account) ContactCount() int {
	return a.Count.EmergencyContacts
}

// Activity status labels for an account.
const (
	StatusActive         = "Active"
	StatusRecentlyActive = "Recently Active"
	StatusInactive       = "Inactive"
)

// Status summarizes account activity.
func (a Account) Status() string {
	switch {
	case a.IsActive:
		return StatusActive
	case a.LastSeen != nil && !a.LastSeen.IsZero():
		return StatusRecentlyActive
	default:
		return StatusInactive
	}
}

// Alert is a backend alert. Type and Severity are normalized on decode.
type Alert struct {
	ID         string          `json:"id"`
	Type       alert.AlertType `json:"type"`
	Severity   alert.Severity  `json:"severity"`
	Message    string          `json:"message"`
	CreatedAt  time.Time       `json:"createdAt"`
	IsResolved bool            `json:"isResolved"`
	UserID     string          `json:"userId"`
	Latitude   *float64        `json:"latitude,omitempty"`
	Longitude  *float64        `json:"longitude,omitempty"`
}

func (a *Alert) normalize() {
	a.Type = alert.ParseAlertType(string(a.Type))
}

// Contact is an emergency contact owned by an account.
type Contact struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Email    *string `json:"email"`
	Relation *string `json:"relation"`
	UserID   string  `json:"userId"`
}

// EmailOrEmpty returns the email or "".
func (c Contact) EmailOrEmpty() string {
	if c.Email == nil {
		return ""
	}
	return *c.Email
}

// RelationOrEmpty returns the relation label or "".
func (c Contact) RelationOrEmpty() string {
	if c.Relation == nil {
		return ""
	}
	return *c.Relation
}

// AlertFilter scopes an alerts query. AccountID is required.
type AlertFilter struct {
	AccountID string
	Limit     int
	Resolved  *bool
}

type alertsInput struct {
	Limit      int    `json:"limit,omitempty"`
	IsResolved *bool  `json:"isResolved,omitempty"`
	UserID     string `json:"userId"`
}

// CreateAlertInput is the payload for alerts.create.
type CreateAlertInput struct {
	UserID    string          `json:"userId"`
	Type      alert.AlertType `json:"type"`
	Severity  alert.Severity  `json:"severity"`
	Message   string          `json:"message"`
	Latitude  *float64        `json:"latitude,omitempty"`
	Longitude *float64        `json:"longitude,omitempty"`
}

// Validate checks the required fields before any network call.
func (in CreateAlertInput) Validate() error {
	switch {
	case strings.TrimSpace(in.UserID) == "":
		return ErrAccountRequired
	case !in.Type.Known():
		return ErrAlertTypeRequired
	case !in.Severity.Known():
		return ErrSeverityRequired
	case strings.TrimSpace(in.Message) == "":
		return ErrMessageRequired
	}
	return nil
}

// ContactInput carries the editable contact fields. Empty optional fields
// are sent as absent.
type ContactInput struct {
	Name     string
	Phone    string
	Email    string
	Relation string
}

// Validate trims the fields and checks that name and phone are present.
func (in *ContactInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.Relation = strings.TrimSpace(in.Relation)
	if in.Name == "" {
		return ErrNameRequired
	}
	if in.Phone == "" {
		return ErrPhoneRequired
	}
	return nil
}

type contactPayload struct {
	ID       string `json:"id,omitempty"`
	UserID   string `json:"userId,omitempty"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Relation string `json:"relation,omitempty"`
}

type idInput struct {
	ID string `json:"id"`
}

type userIDInput struct {
	UserID string `json:"userId"`
}
