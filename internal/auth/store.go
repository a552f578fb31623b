package auth

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/astroquery/internal/prefs"
)

// TokenStore keeps a session's bearer token in the preference store.
type TokenStore struct {
	prefs  *prefs.Store
	logger *zap.Logger
}

// NewTokenStore creates a TokenStore.
func NewTokenStore(p *prefs.Store, logger *zap.Logger) *TokenStore {
	return &TokenStore{prefs: p, logger: logger}
}

// Token returns the session's token, or "" when there is none. Read
// failures are logged and treated as signed out.
func (t *TokenStore) Token(ctx context.Context, sessionID string) string {
	tok, _, err := t.prefs.Get(ctx, sessionID, prefs.KeyAuthToken)
	if err != nil {
		t.logger.Warn("reading auth token", zap.String("session", sessionID), zap.Error(err))
		return ""
	}
	return tok
}

// SetToken stores the session's token.
func (t *TokenStore) SetToken(ctx context.Context, sessionID, token string) error {
	if err := t.prefs.Set(ctx, sessionID, prefs.KeyAuthToken, token); err != nil {
		return fmt.Errorf("storing auth token: %w", err)
	}
	return nil
}

// Clear removes the token and the session blob.
func (t *TokenStore) Clear(ctx context.Context, sessionID string) error {
	if err := t.prefs.Delete(ctx, sessionID, prefs.KeyAuthToken); err != nil {
		return fmt.Errorf("removing auth token: %w", err)
	}
	if err := t.prefs.ClearSession(ctx, sessionID); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
