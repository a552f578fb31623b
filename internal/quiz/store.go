package quiz

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ziadkadry99/astroquery/internal/prefs"
)

// Store keeps the in-progress attempt and the transient result of one
// browser session.
type Store struct {
	prefs *prefs.Store
}

// NewStore creates a quiz store.
func NewStore(p *prefs.Store) *Store {
	return &Store{prefs: p}
}

// Lock holds the session's attempt for one load, change and save cycle.
func (s *Store) Lock(sessionID string) (unlock func()) {
	return s.prefs.Lock(sessionID, prefs.KeyQuizAttempt)
}

// Load returns the attempt for topic/level, or nil when none is in
// progress for that lesson.
func (s *Store) Load(ctx context.Context, sessionID, topic, level string) (*Attempt, error) {
	var a Attempt
	ok, err := s.prefs.GetJSON(ctx, sessionID, prefs.KeyQuizAttempt, &a)
	if err != nil {
		// An unreadable attempt is discarded; the quiz restarts.
		return nil, nil
	}
	if !ok || !a.Valid() || a.Topic != topic || a.Level != level {
		return nil, nil
	}
	return &a, nil
}

// Save persists the attempt, replacing any other lesson's attempt.
func (s *Store) Save(ctx context.Context, sessionID string, a *Attempt) error {
	return s.prefs.SetJSON(ctx, sessionID, prefs.KeyQuizAttempt, a)
}

// Clear drops the in-progress attempt.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	return s.prefs.Delete(ctx, sessionID, prefs.KeyQuizAttempt)
}

// PutResult stores a graded result for the results page.
func (s *Store) PutResult(ctx context.Context, sessionID string, r Result) error {
	return s.prefs.SetJSON(ctx, sessionID, prefs.KeyQuizResult, r)
}

// TakeResult reads and deletes the stored result. ok is false when there
// is none, or it belongs to a different lesson.
func (s *Store) TakeResult(ctx context.Context, sessionID, topic, level string) (Result, bool, error) {
	raw, ok, err := s.prefs.Take(ctx, sessionID, prefs.KeyQuizResult)
	if err != nil || !ok {
		return Result{}, false, err
	}
	var r Result
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return Result{}, false, fmt.Errorf("decoding quiz result: %w", err)
	}
	if r.Topic != topic || r.Level != level {
		return Result{}, false, nil
	}
	return r, true, nil
}
