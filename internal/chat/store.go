// Package chat persists conversation transcripts and exposes the HTTP
// and WebSocket chat API.
package chat

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zoomrx/agastya/internal/db"
)

// Session is one chat session belonging to a panel user.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is one transcript entry. Intent is empty for user turns.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Intent    string    `json:"intent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store manages persistence of chat sessions and messages.
type Store struct {
	db *db.DB
}

// NewStore creates a new chat store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// CreateSession creates a new chat session for a user.
func (s *Store) CreateSession(ctx context.Context, userID int64) (*Session, error) {
	sess := Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_sessions (id, user_id, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		sess.ID, sess.UserID, sess.CreatedAt, sess.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return &sess, nil
}

// AddMessage appends a message to a chat session.
func (s *Store) AddMessage(ctx context.Context, msg Message) (*Message, error) {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	msg.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (id, session_id, role, content, intent, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.SessionID, msg.Role, msg.Content, msg.Intent, msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("adding message: %w", err)
	}

	// Update session timestamp.
	s.db.ExecContext(ctx, `UPDATE chat_sessions SET updated_at = ? WHERE id = ?`, msg.CreatedAt, msg.SessionID)

	return &msg, nil
}

// GetMessages returns all messages for a session, ordered by creation time.
func (s *Store) GetMessages(ctx context.Context, sessionID string) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, intent, created_at
		 FROM chat_messages WHERE session_id = ? ORDER BY created_at ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.Intent, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// LatestSession returns the most recently updated session for a user, or
// nil when the user has none.
func (s *Store) LatestSession(ctx context.Context, userID int64) (*Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, updated_at FROM chat_sessions
		 WHERE user_id = ? ORDER BY updated_at DESC LIMIT 1`,
		userID,
	).Scan(&sess.ID, &sess.UserID, &sess.CreatedAt, &sess.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest session: %w", err)
	}
	return &sess, nil
}

// CountSessions returns the total number of chat sessions.
func (s *Store) CountSessions(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_sessions`).Scan(&count)
	return count, err
}
