// Package prefs is the local preference store: free-form, unversioned
// key/value pairs scoped to one browser session and persisted in SQLite.
package prefs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ziadkadry99/astroquery/internal/db"
)

// Well-known keys.
const (
	KeySession          = "app_session"
	KeyAuthToken        = "auth_token"
	KeyCompletedLessons = "completedLessons"
	KeyStreakDays       = "streakDays"
	KeyLastActivity     = "lastActivity"
	KeyQuizAttempt      = "quizAttempt"
	KeyQuizResult       = "quizResult"
	KeyScenario         = "simulator:scenario"
)

// Store manages persistence of session preferences.
type Store struct {
	db *db.DB

	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewStore creates a new preference store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, locks: make(map[string]*keyLock)}
}

// Lock serialises read-modify-write cycles on one key of a session. It
// blocks until the key is free and returns the matching unlock.
func (s *Store) Lock(sessionID, key string) (unlock func()) {
	k := sessionID + "\x00" + key
	s.mu.Lock()
	l := s.locks[k]
	if l == nil {
		l = &keyLock{}
		s.locks[k] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(s.locks, k)
		}
		s.mu.Unlock()
	}
}

// Get returns the raw value stored under key. ok is false when the key
// has never been written.
func (s *Store) Get(ctx context.Context, sessionID, key string) (value string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE session_id = ? AND key = ?`, sessionID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting preference %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, sessionID, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences (session_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		sessionID, key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("setting preference %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, sessionID, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM preferences WHERE session_id = ? AND key = ?`, sessionID, key)
	if err != nil {
		return fmt.Errorf("deleting preference %s: %w", key, err)
	}
	return nil
}

// Take reads key and deletes it in one transaction, for values that may
// only be consumed once.
func (s *Store) Take(ctx context.Context, sessionID, key string) (string, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("beginning take %s: %w", key, err)
	}
	defer tx.Rollback()

	var value string
	err = tx.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE session_id = ? AND key = ?`, sessionID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("taking preference %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM preferences WHERE session_id = ? AND key = ?`, sessionID, key); err != nil {
		return "", false, fmt.Errorf("taking preference %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("committing take %s: %w", key, err)
	}
	return value, true, nil
}

// GetJSON decodes the value under key into v.
func (s *Store) GetJSON(ctx context.Context, sessionID, key string, v any) (bool, error) {
	raw, ok, err := s.Get(ctx, sessionID, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decoding preference %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func (s *Store) SetJSON(ctx context.Context, sessionID, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding preference %s: %w", key, err)
	}
	return s.Set(ctx, sessionID, key, string(data))
}

// Purge removes every key stored for a session.
func (s *Store) Purge(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("purging session %s: %w", sessionID, err)
	}
	return nil
}
