// Package session provides SQLite-backed persistence for the selected
// account and the persisted query cache.
package session

import "time"

// SelectedAccountKey is the fixed key under which the selected account id
// is persisted.
const SelectedAccountKey = "selectedAccountId"

// CacheEntry is one persisted query result.
type CacheEntry struct {
	Key       string
	Procedure string
	Payload   []byte
	FetchedAt time.Time
	Stale     bool
}
