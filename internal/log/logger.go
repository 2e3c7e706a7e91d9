// Package log provides structured event logging.
// This file appends JSON events to log.jsonl.
package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event type constants.
const (
	EventAccountSelected    = "account_selected"
	EventDashboardAccessed  = "dashboard_accessed"
	EventAlertViewed        = "alert_viewed"
	EventEmergencyTriggered = "emergency_triggered"
	EventLogout             = "logout"
	EventSessionError       = "session_error"
	EventRequestFailed      = "request_failed"
	EventRequestRetry       = "request_retry"
)

// activityEvents are the usage events shown by `safewatch activity`.
var activityEvents = map[string]bool{
	EventAccountSelected:    true,
	EventDashboardAccessed:  true,
	EventAlertViewed:        true,
	EventEmergencyTriggered: true,
	EventLogout:             true,
}

// LogEvent represents a single structured event written to the log.
type LogEvent struct {
	Time       time.Time              `json:"time"`
	Event      string                 `json:"event"`
	AccountID  string                 `json:"account,omitempty"`
	AlertID    string                 `json:"alert,omitempty"`
	Procedure  string                 `json:"procedure,omitempty"`
	Op         string                 `json:"op,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Attempt    int                    `json:"attempt,omitempty"`
	DurationMs int64                  `json:"duration_ms,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// IsActivity reports whether e records user activity rather than a
// diagnostic.
func (e LogEvent) IsActivity() bool {
	return activityEvents[e.Event]
}

// Logger writes append-only JSONL events to a log file.
// A nil *Logger is valid and discards everything.
type Logger struct {
	path string
	mu   sync.Mutex
}

// NewLogger creates a Logger that writes to log.jsonl inside stateDir.
// Creates stateDir if it does not already exist.
// Does not truncate an existing log file.
func NewLogger(stateDir string) (*Logger, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	return &Logger{
		path: filepath.Join(stateDir, "log.jsonl"),
	}, nil
}

// Append writes a single LogEvent as one JSON line to the log file.
// If event.Time is the zero value, it is automatically set to time.Now().UTC().
// Thread-safe via mutex.
func (l *Logger) Append(event LogEvent) error {
	if l == nil {
		return nil
	}
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal log event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write log event: %w", err)
	}

	return nil
}

// Activity records a usage event for an explicit account. Failures are
// swallowed; activity logging never interrupts the caller.
func (l *Logger) Activity(event, accountID string, data map[string]interface{}) {
	if accountID == "" {
		return
	}
	_ = l.Append(LogEvent{Event: event, AccountID: accountID, Data: data})
}

// AlertActivity records a usage event about one alert.
func (l *Logger) AlertActivity(event, accountID, alertID string, data map[string]interface{}) {
	if accountID == "" {
		return
	}
	_ = l.Append(LogEvent{Event: event, AccountID: accountID, AlertID: alertID, Data: data})
}

// Warn records a diagnostic with an error attached.
func (l *Logger) Warn(event, op string, err error) {
	ev := LogEvent{Event: event, Op: op}
	if err != nil {
		ev.Error = err.Error()
	}
	_ = l.Append(ev)
}

// ReadAll reads and parses all events from the log file.
// Returns an empty slice (not an error) if the file does not exist.
func (l *Logger) ReadAll() ([]LogEvent, error) {
	if l == nil {
		return []LogEvent{}, nil
	}
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []LogEvent{}, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	var events []LogEvent
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event LogEvent
		if err := json.Unmarshal(line, &event); err != nil {
			return nil, fmt.Errorf("parse log line %d: %w", lineNum, err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}

	return events, nil
}

// RecentActivity returns up to limit activity events for accountID, newest
// first. An empty accountID matches every account.
func (l *Logger) RecentActivity(accountID string, limit int) ([]LogEvent, error) {
	events, err := l.ReadAll()
	if err != nil {
		return nil, err
	}
	var out []LogEvent
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		if !ev.IsActivity() {
			continue
		}
		if accountID != "" && ev.AccountID != accountID {
			continue
		}
		out = append(out, ev)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
