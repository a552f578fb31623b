// Package chat answers questions about the publication corpus and keeps the
// conversation history of each browser session.
package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/astroquery/internal/backend"
)

// RetrievalCount is the number of publications the backend grounds an
// answer on.
const RetrievalCount = 5

// HistoryLimit is how many messages are shown when a chat opens.
const HistoryLimit = 50

var unsurePhrases = []string{
	"i don't know",
	"i do not know",
	"i'm not sure",
	"i am not sure",
}

// Unsure reports whether an answer admits it has no answer. Citations are
// not shown for such answers.
func Unsure(answer string) bool {
	lower := strings.ToLower(answer)
	for _, p := range unsurePhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Backend is the subset of the backend client chat calls.
type Backend interface {
	Chat(ctx context.Context, messages []backend.ChatMessage, k int) (*backend.ChatResponse, error)
}

// Service sends questions to the backend and records the exchange.
type Service struct {
	backend Backend
	store   *Store
	logger  *zap.Logger
}

// NewService creates a chat service.
func NewService(b Backend, store *Store, logger *zap.Logger) *Service {
	return &Service{backend: b, store: store, logger: logger}
}

// History returns the session's recent messages.
func (s *Service) History(ctx context.Context, sessionID string) ([]Message, error) {
	return s.store.List(ctx, sessionID, HistoryLimit)
}

// Clear deletes the session's history.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}

// Ask sends one question and returns the stored assistant reply. History
// writes are best-effort; a failed write does not fail the answer.
func (s *Service) Ask(ctx context.Context, sessionID, question string) (*Message, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is empty")
	}
	if _, err := s.store.Append(ctx, sessionID, Message{Role: RoleUser, Content: question}); err != nil {
		s.logger.Warn("storing chat question", zap.String("session", sessionID), zap.Error(err))
	}

	resp, err := s.backend.Chat(ctx, []backend.ChatMessage{{Role: RoleUser, Content: question}}, RetrievalCount)
	if err != nil {
		return nil, fmt.Errorf("asking backend: %w", err)
	}

	reply := Message{Role: RoleAssistant, Content: resp.Answer}
	if !Unsure(resp.Answer) {
		reply.Citations = resp.Citations
	}
	stored, err := s.store.Append(ctx, sessionID, reply)
	if err != nil {
		s.logger.Warn("storing chat answer", zap.String("session", sessionID), zap.Error(err))
		return &reply, nil
	}
	return stored, nil
}
