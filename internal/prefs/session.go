package prefs

import (
	"context"
	"strings"
)

// Session is the blob stored under KeySession.
type Session struct {
	LastQuery     string `json:"lastQuery,omitempty"`
	ChatCollapsed *bool  `json:"chatCollapsed,omitempty"`
	UserInitials  string `json:"userInitials,omitempty"`
	UserName      string `json:"userName,omitempty"`
}

// Collapsed reports whether the chat popup is closed. It starts closed.
func (s Session) Collapsed() bool {
	return s.ChatCollapsed == nil || *s.ChatCollapsed
}

// SetCollapsed records the chat popup state.
func (s *Session) SetCollapsed(v bool) { s.ChatCollapsed = &v }

// Initials returns the header avatar text, "U" when unset.
func (s Session) Initials() string {
	if s.UserInitials == "" {
		return "U"
	}
	return s.UserInitials
}

// DisplayName returns the account name, "User" when unset.
func (s Session) DisplayName() string {
	if s.UserName == "" {
		return "User"
	}
	return s.UserName
}

// InitialsFor derives up to two upper-case initials from a display name.
func InitialsFor(name string) string {
	var initials []rune
	for _, part := range strings.Fields(name) {
		initials = append(initials, []rune(strings.ToUpper(part))[0])
		if len(initials) == 2 {
			break
		}
	}
	return string(initials)
}

// Session reads the session blob. A missing or unreadable blob yields the
// zero Session so the header can always render.
func (s *Store) Session(ctx context.Context, sessionID string) (Session, error) {
	var sess Session
	if _, err := s.GetJSON(ctx, sessionID, KeySession, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// UpdateSession applies fn to the stored blob and writes it back. The blob
// is created on first write.
func (s *Store) UpdateSession(ctx context.Context, sessionID string, fn func(*Session)) (Session, error) {
	defer s.Lock(sessionID, KeySession)()

	var sess Session
	// A corrupt blob is replaced rather than blocking every later write.
	_, _ = s.GetJSON(ctx, sessionID, KeySession, &sess)
	fn(&sess)
	if err := s.SetJSON(ctx, sessionID, KeySession, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// ClearSession drops the session blob.
func (s *Store) ClearSession(ctx context.Context, sessionID string) error {
	return s.Delete(ctx, sessionID, KeySession)
}
