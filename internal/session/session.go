package session

import (
	"context"
	"sync"

	"github.com/safewatch/safewatch/internal/log"
)

// KV is the key/value surface the selected-account session needs.
type KV interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Session persists the single selected-account identifier across restarts.
// Every operation is best-effort: failures are logged and degrade to "no
// session" instead of reaching the caller. Calls of the same kind never
// overlap; a second Save waits for the first.
type Session struct {
	kv     KV
	logger *log.Logger

	loadMu  sync.Mutex
	saveMu  sync.Mutex
	clearMu sync.Mutex
}

// New returns a Session backed by kv. logger may be nil.
func New(kv KV, logger *log.Logger) *Session {
	return &Session{kv: kv, logger: logger}
}

// Load returns the persisted account id. Any read error is reported as no
// session.
func (s *Session) Load(ctx context.Context) (string, bool) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.kv == nil {
		return "", false
	}
	id, ok, err := s.kv.GetItem(ctx, SelectedAccountKey)
	if err != nil {
		s.logger.Warn(log.EventSessionError, "load", err)
		return "", false
	}
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Save persists accountID.
func (s *Session) Save(ctx context.Context, accountID string) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if s.kv == nil {
		return
	}
	if err := s.kv.SetItem(ctx, SelectedAccountKey, accountID); err != nil {
		s.logger.Warn(log.EventSessionError, "save", err)
	}
}

// Clear removes the persisted account id.
func (s *Session) Clear(ctx context.Context) {
	s.clearMu.Lock()
	defer s.clearMu.Unlock()

	if s.kv == nil {
		return
	}
	if err := s.kv.RemoveItem(ctx, SelectedAccountKey); err != nil {
		s.logger.Warn(log.EventSessionError, "clear", err)
	}
}
