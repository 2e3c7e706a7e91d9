// Package devserver is an in-memory backend that answers the same tRPC
// procedures as the real server. It backs the devserver command and tests.
package devserver

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/safewatch/safewatch/internal/alert"
	"github.com/safewatch/safewatch/internal/gateway"
)

// Backend holds accounts, alerts and contacts in memory.
type Backend struct {
	mu       sync.Mutex
	accounts []*gateway.Account
	alerts   []*gateway.Alert
	contacts []*gateway.Contact
	faults   map[string][]int
	calls    map[string]int
	now      func() time.Time
}

// New returns an empty backend.
func New() *Backend {
	return &Backend{
		faults: make(map[string][]int),
		calls:  make(map[string]int),
		now:    time.Now,
	}
}

// AddAccount stores a copy of a. An empty ID gets a generated one.
func (b *Backend) AddAccount(a gateway.Account) gateway.Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	b.accounts = append(b.accounts, &a)
	return a
}

// AddAlert stores a copy of a. Zero CreatedAt becomes now.
func (b *Backend) AddAlert(a gateway.Alert) gateway.Alert {
	b.mu.Lock()
	defer b.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = b.now().UTC()
	}
	b.alerts = append(b.alerts, &a)
	return a
}

// AddContact stores a copy of c.
func (b *Backend) AddContact(c gateway.Contact) gateway.Contact {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	b.contacts = append(b.contacts, &c)
	return c
}

// FailNext makes the next len(statuses) calls to proc fail with the given
// HTTP statuses, in order.
func (b *Backend) FailNext(proc string, statuses ...int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.faults[proc] = append(b.faults[proc], statuses...)
}

// Calls returns how many requests reached proc, failed ones included.
func (b *Backend) Calls(proc string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[proc]
}

func (b *Backend) record(proc string) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[proc]++
	q := b.faults[proc]
	if len(q) == 0 {
		return 0, false
	}
	b.faults[proc] = q[1:]
	return q[0], true
}

func (b *Backend) listAccounts() []gateway.Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]gateway.Account, 0, len(b.accounts))
	for _, a := range b.accounts {
		out = append(out, b.withCounts(*a))
	}
	return out
}

func (b *Backend) account(id string) (gateway.Account, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.accounts {
		if a.ID == id {
			return b.withCounts(*a), true
		}
	}
	return gateway.Account{}, false
}

// withCounts fills the _count block. Caller holds mu.
func (b *Backend) withCounts(a gateway.Account) gateway.Account {
	a.Count.Alerts = 0
	a.Count.EmergencyContacts = 0
	for _, al := range b.alerts {
		if al.UserID == a.ID {
			a.Count.Alerts++
		}
	}
	for _, c := range b.contacts {
		if c.UserID == a.ID {
			a.Count.EmergencyContacts++
		}
	}
	return a
}

func (b *Backend) hasAccount(id string) bool {
	_, ok := b.account(id)
	return ok
}

func (b *Backend) listAlerts(userID string, resolved *bool, limit int) []gateway.Alert {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []gateway.Alert
	for _, a := range b.alerts {
		if userID != "" && a.UserID != userID {
			continue
		}
		if resolved != nil && a.IsResolved != *resolved {
			continue
		}
		out = append(out, *a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (b *Backend) createAlert(in gateway.CreateAlertInput) gateway.Alert {
	return b.AddAlert(gateway.Alert{
		Type:      in.Type,
		Severity:  in.Severity,
		Message:   strings.TrimSpace(in.Message),
		UserID:    in.UserID,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
	})
}

func (b *Backend) resolveAlert(id string) (gateway.Alert, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.alerts {
		if a.ID == id {
			a.IsResolved = true
			return *a, true
		}
	}
	return gateway.Alert{}, false
}

func (b *Backend) listContacts(userID string) []gateway.Contact {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []gateway.Contact{}
	for _, c := range b.contacts {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out
}

func (b *Backend) updateContact(id string, apply func(*gateway.Contact)) (gateway.Contact, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.contacts {
		if c.ID == id {
			apply(c)
			return *c, true
		}
	}
	return gateway.Contact{}, false
}

func (b *Backend) deleteContact(id string) (gateway.Contact, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, c := range b.contacts {
		if c.ID == id {
			b.contacts = append(b.contacts[:i], b.contacts[i+1:]...)
			return *c, true
		}
	}
	return gateway.Contact{}, false
}

// Seed loads a small demo data set.
func (b *Backend) Seed() {
	now := b.now().UTC()
	seen := now.Add(-2 * time.Hour)
	accounts := []gateway.Account{
		{ID: "u1", Name: "Jordan Reyes", Email: "jordan@example.com", Phone: "+1-555-0101", IsActive: true},
		{ID: "u2", Name: "Sam Patel", Email: "sam@example.com", Phone: "+1-555-0102", LastSeen: &seen},
		{ID: "u3", Name: "Riley Chen", Email: "riley@example.com", Phone: "+1-555-0103"},
	}
	for _, a := range accounts {
		b.AddAccount(a)
	}

	b.AddAlert(gateway.Alert{
		UserID: "u1", Type: alert.FloodWarning, Severity: alert.Warning,
		Message: "River levels rising near Main St bridge", CreatedAt: now.Add(-30 * time.Minute),
	})
	b.AddAlert(gateway.Alert{
		UserID: "u1", Type: alert.PowerOutage, Severity: alert.Advisory,
		Message: "Scheduled maintenance in sector 4", CreatedAt: now.Add(-3 * time.Hour),
	})
	b.AddAlert(gateway.Alert{
		UserID: "u1", Type: alert.RoadClosure, Severity: alert.Info,
		Message: "Highway 9 reopened", CreatedAt: now.Add(-26 * time.Hour), IsResolved: true,
	})
	b.AddAlert(gateway.Alert{
		UserID: "u2", Type: alert.WildfireAlert, Severity: alert.Emergency,
		Message: "Evacuate north ridge", CreatedAt: now.Add(-15 * time.Minute),
	})

	mom, friend := "Mother", "Friend"
	email := "casey@example.com"
	b.AddContact(gateway.Contact{UserID: "u1", Name: "Casey Reyes", Phone: "+1-555-0199", Email: &email, Relation: &mom})
	b.AddContact(gateway.Contact{UserID: "u1", Name: "Drew Kim", Phone: "+1-555-0188", Relation: &friend})
}
