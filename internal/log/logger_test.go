package log

import (
	"errors"
	"testing"
)

func TestAppendAndReadAll(t *testing.T) {
	l, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	if err := l.Append(LogEvent{Event: EventAccountSelected, AccountID: "u1"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	l.Warn(EventSessionError, "save", errors.New("disk full"))

	events, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Time.IsZero() {
		t.Error("Append should stamp a time")
	}
	if events[1].Error != "disk full" || events[1].Op != "save" {
		t.Errorf("unexpected warn event: %+v", events[1])
	}
}

func TestReadAllMissingFile(t *testing.T) {
	l, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	events, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}

func TestRecentActivityFiltersAndOrders(t *testing.T) {
	l, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	l.Activity(EventAccountSelected, "u1", nil)
	l.Activity(EventDashboardAccessed, "u2", nil)
	l.Warn(EventRequestFailed, "alerts.getAll", errors.New("boom"))
	l.AlertActivity(EventAlertViewed, "u1", "a1", nil)
	l.Activity(EventEmergencyTriggered, "", nil) // dropped: no account

	got, err := l.RecentActivity("u1", 10)
	if err != nil {
		t.Fatalf("RecentActivity: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].Event != EventAlertViewed || got[1].Event != EventAccountSelected {
		t.Errorf("wrong order: %s, %s", got[0].Event, got[1].Event)
	}
	if got[0].AlertID != "a1" {
		t.Errorf("alert id = %q, want a1", got[0].AlertID)
	}

	all, err := l.RecentActivity("", 1)
	if err != nil {
		t.Fatalf("RecentActivity: %v", err)
	}
	if len(all) != 1 || all[0].Event != EventAlertViewed {
		t.Errorf("limit not applied: %+v", all)
	}
}

func TestNilLoggerIsNoop(t *testing.T) {
	var l *Logger
	if err := l.Append(LogEvent{Event: EventLogout}); err != nil {
		t.Errorf("nil Append: %v", err)
	}
	l.Activity(EventLogout, "u1", nil)
	events, err := l.ReadAll()
	if err != nil || len(events) != 0 {
		t.Errorf("nil ReadAll = %v, %v", events, err)
	}
}
