package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/graph"
)

// ErrSessionNotFound is returned when a chat session id does not exist.
var ErrSessionNotFound = errors.New("chat session not found")

// ChatSession groups the messages of one conversation.
type ChatSession struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Title           string    `json:"title"`
	CreatedAt       time.Time `json:"created_at"`
	LastMessageTime time.Time `json:"last_message_time"`
}

// StoredMessage is a recorded message as read back from the database.
type StoredMessage struct {
	ID         int64     `json:"id"`
	SessionID  int64     `json:"chat_session_id"`
	Sender     string    `json:"sender"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	References []string  `json:"references"`
	ToolsUsed  []string  `json:"tools_used"`
}

// MessageStore persists chat sessions and the messages recorded by the
// workflow. Every write is its own statement; nothing is wrapped in a
// transaction.
type MessageStore struct {
	db *sql.DB
}

func NewMessageStore(db *sql.DB) *MessageStore {
	return &MessageStore{db: db}
}

// RecordMessage implements graph.Recorder.
func (s *MessageStore) RecordMessage(ctx context.Context, msg graph.Message) error {
	refs := msg.References
	if refs == nil {
		refs = []string{}
	}
	tools := msg.ToolsUsed
	if tools == nil {
		tools = []string{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (chat_session_id, sender, content, ref, tools_used)
		VALUES ($1, $2, $3, $4, $5)
	`, msg.SessionID, string(msg.Sender), msg.Content, pq.Array(refs), pq.Array(tools))
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *MessageStore) CreateSession(ctx context.Context, userID int64) (*ChatSession, error) {
	var cs ChatSession
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO chat_session (user_id, title)
		VALUES ($1, 'Untitled')
		RETURNING id, user_id, title, created_at, last_message_time
	`, userID).Scan(&cs.ID, &cs.UserID, &cs.Title, &cs.CreatedAt, &cs.LastMessageTime)
	if err != nil {
		return nil, fmt.Errorf("create chat session: %w", err)
	}
	return &cs, nil
}

// UpdateSessionTitle renames a session and bumps its last message time.
func (s *MessageStore) UpdateSessionTitle(ctx context.Context, id int64, title string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE chat_session SET title = $1, last_message_time = now() WHERE id = $2", title, id)
	if err != nil {
		return fmt.Errorf("update chat session: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *MessageStore) SessionsByUser(ctx context.Context, userID int64) ([]ChatSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, COALESCE(title, ''), created_at, last_message_time
		FROM chat_session
		WHERE user_id = $1
		ORDER BY last_message_time DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query chat sessions: %w", err)
	}
	defer rows.Close()

	sessions := []ChatSession{}
	for rows.Next() {
		var cs ChatSession
		if err := rows.Scan(&cs.ID, &cs.UserID, &cs.Title, &cs.CreatedAt, &cs.LastMessageTime); err != nil {
			return nil, err
		}
		sessions = append(sessions, cs)
	}
	return sessions, rows.Err()
}

func (s *MessageStore) MessagesBySession(ctx context.Context, sessionID int64) ([]StoredMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, chat_session_id, sender, content, timestamp, ref, tools_used
		FROM messages
		WHERE chat_session_id = $1
		ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	msgs := []StoredMessage{}
	for rows.Next() {
		var m StoredMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Sender, &m.Content, &m.Timestamp,
			pq.Array(&m.References), pq.Array(&m.ToolsUsed)); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// Ping reports whether the database is reachable.
func (s *MessageStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
