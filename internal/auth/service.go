package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/astroquery/internal/backend"
	"github.com/ziadkadry99/astroquery/internal/prefs"
)

// Default messages when the backend does not send one.
const (
	SignupDone = "Account created successfully! Redirecting to login..."
	ForgotDone = "If an account exists, password reset instructions will be sent."
)

// Backend is the subset of the backend client auth calls.
type Backend interface {
	Login(ctx context.Context, email, password string) (*backend.LoginResponse, error)
	Signup(ctx context.Context, name, email, password string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
}

// Service runs the auth flows for a session.
type Service struct {
	backend Backend
	tokens  *TokenStore
	prefs   *prefs.Store
	logger  *zap.Logger
}

// NewService creates an auth service.
func NewService(b Backend, p *prefs.Store, logger *zap.Logger) *Service {
	return &Service{
		backend: b,
		tokens:  NewTokenStore(p, logger),
		prefs:   p,
		logger:  logger,
	}
}

// Tokens exposes the token store.
func (s *Service) Tokens() *TokenStore { return s.tokens }

// LoggedIn reports whether the session holds a token.
func (s *Service) LoggedIn(ctx context.Context, sessionID string) bool {
	return s.tokens.Token(ctx, sessionID) != ""
}

// Login validates the form, signs in and records the display name.
func (s *Service) Login(ctx context.Context, sessionID string, f LoginForm) (prefs.Session, error) {
	if fe := f.Validate(); fe != nil {
		return prefs.Session{}, fe
	}
	resp, err := s.backend.Login(ctx, f.Email, f.Password)
	if err != nil {
		return prefs.Session{}, fmt.Errorf("logging in: %w", err)
	}
	if resp.Token != "" {
		if err := s.tokens.SetToken(ctx, sessionID, resp.Token); err != nil {
			return prefs.Session{}, err
		}
	}

	name := f.Email
	if i := strings.IndexByte(name, '@'); i > 0 {
		name = name[:i]
	}
	if resp.User != nil && resp.User.Name != "" {
		name = resp.User.Name
	}
	sess, err := s.prefs.UpdateSession(ctx, sessionID, func(sess *prefs.Session) {
		sess.UserName = name
		sess.UserInitials = prefs.InitialsFor(name)
	})
	if err != nil {
		return prefs.Session{}, fmt.Errorf("saving session: %w", err)
	}
	s.logger.Info("user logged in", zap.String("session", sessionID))
	return sess, nil
}

// Signup validates the form and creates an account. It returns the message
// to show.
func (s *Service) Signup(ctx context.Context, f SignupForm) (string, error) {
	if fe := f.Validate(); fe != nil {
		return "", fe
	}
	msg, err := s.backend.Signup(ctx, f.Name, f.Email, f.Password)
	if err != nil {
		return "", fmt.Errorf("signing up: %w", err)
	}
	if msg == "" {
		msg = SignupDone
	}
	return msg, nil
}

// Forgot requests a password reset. It returns the message to show.
func (s *Service) Forgot(ctx context.Context, f ForgotForm) (string, error) {
	if fe := f.Validate(); fe != nil {
		return "", fe
	}
	msg, err := s.backend.ForgotPassword(ctx, f.Email)
	if err != nil {
		return "", fmt.Errorf("requesting password reset: %w", err)
	}
	if msg == "" {
		msg = ForgotDone
	}
	return msg, nil
}

// Logout forgets the token and the session blob.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.tokens.Clear(ctx, sessionID)
}

// FailureMessage is the user-facing text for a failed flow.
func FailureMessage(err error, fallback string) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
