package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/astroquery/internal/backend"
	"github.com/ziadkadry99/astroquery/internal/db"
)

// Roles of a stored message.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one stored chat turn.
type Message struct {
	ID        string             `json:"id"`
	Role      string             `json:"role"`
	Content   string             `json:"content"`
	Citations []backend.Citation `json:"citations,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// Store persists chat history per browser session.
type Store struct {
	db *db.DB
}

// NewStore creates a chat history store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Append stores a message and returns it with its id and timestamp set.
func (s *Store) Append(ctx context.Context, sessionID string, m Message) (*Message, error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.CreatedAt = time.Now().UTC()
	if m.Citations == nil {
		m.Citations = []backend.Citation{}
	}
	cites, err := json.Marshal(m.Citations)
	if err != nil {
		return nil, fmt.Errorf("encoding citations: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (id, session_id, role, content, citations, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, sessionID, m.Role, m.Content, string(cites), m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting chat message: %w", err)
	}
	return &m, nil
}

// List returns the session's most recent messages, oldest first. A
// non-positive limit returns all of them.
func (s *Store) List(ctx context.Context, sessionID string, limit int) ([]Message, error) {
	query := `SELECT id, role, content, citations, created_at FROM (
		SELECT rowid AS seq, id, role, content, citations, created_at
		FROM chat_messages WHERE session_id = ?
		ORDER BY created_at DESC, seq DESC`
	args := []interface{}{sessionID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	query += ") ORDER BY created_at ASC, seq ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing chat messages: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		var cites string
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &cites, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning chat message: %w", err)
		}
		if err := json.Unmarshal([]byte(cites), &m.Citations); err != nil {
			return nil, fmt.Errorf("decoding citations of %s: %w", m.ID, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// Clear deletes the session's history.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("clearing chat history: %w", err)
	}
	return nil
}
