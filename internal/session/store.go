package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store provides SQLite-backed persistence for local client state.
type Store struct {
	db *sql.DB
}

// NewStore opens the SQLite database at dbPath and creates tables if they don't exist.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS query_cache (
		key TEXT PRIMARY KEY,
		procedure TEXT NOT NULL,
		payload BLOB NOT NULL,
		fetched_at DATETIME NOT NULL,
		stale INTEGER NOT NULL DEFAULT 0
	);
	`
	_, err := db.Exec(schema)
	return err
}

// GetItem returns the value stored under key. ok is false when the key is
// absent.
func (s *Store) GetItem(ctx context.Context, key string) (value string, ok bool, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key)
	err = row.Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("scan item: %w", err)
	}
	return value, true, nil
}

// SetItem stores value under key, replacing any previous value.
func (s *Store) SetItem(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}
	return nil
}

// RemoveItem deletes key. Removing an absent key is not an error.
func (s *Store) RemoveItem(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// PutCacheEntry persists one query-cache entry.
func (s *Store) PutCacheEntry(ctx context.Context, e CacheEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO query_cache (key, procedure, payload, fetched_at, stale) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET procedure = excluded.procedure,
		   payload = excluded.payload, fetched_at = excluded.fetched_at, stale = excluded.stale`,
		e.Key, e.Procedure, e.Payload, e.FetchedAt.UTC(), e.Stale,
	)
	if err != nil {
		return fmt.Errorf("upsert cache entry: %w", err)
	}
	return nil
}

// CacheEntries returns persisted cache entries fetched after since.
func (s *Store) CacheEntries(ctx context.Context, since time.Time) ([]CacheEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, procedure, payload, fetched_at, stale
		 FROM query_cache
		 WHERE fetched_at > ?
		 ORDER BY fetched_at ASC`,
		since.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query cache entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []CacheEntry
	for rows.Next() {
		var e CacheEntry
		if err := rows.Scan(&e.Key, &e.Procedure, &e.Payload, &e.FetchedAt, &e.Stale); err != nil {
			return nil, fmt.Errorf("scan cache entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return entries, nil
}

// PruneCache removes entries fetched at or before cutoff and returns how many
// were removed.
func (s *Store) PruneCache(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM query_cache WHERE fetched_at <= ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check rows affected: %w", err)
	}
	return n, nil
}

// ClearCache removes every persisted cache entry.
func (s *Store) ClearCache(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM query_cache`); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}
