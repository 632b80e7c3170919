package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ecostudy/internal/models"

	"github.com/google/uuid"
)

type ChatSQLite struct {
	db *sql.DB
}

func NewChatSQLite(db *sql.DB) *ChatSQLite { return &ChatSQLite{db: db} }

var _ Chats = (*ChatSQLite)(nil)

const (
	insertChatSQL = `INSERT INTO chats (id, user_id, question, answer, kind, created_at) VALUES (?, ?, ?, ?, ?, ?)`

	// rowid breaks ties between chats written within the same timestamp.
	selectChatsByUserSQL = `SELECT id, user_id, question, answer, kind, created_at FROM chats WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`
)

// Append inserts a chat. If ID or CreatedAt are empty, they’re set.
func (r *ChatSQLite) Append(ctx context.Context, c *models.Chat) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	} else {
		c.CreatedAt = c.CreatedAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertChatSQL,
		c.ID,
		c.UserID,
		c.Question,
		c.Answer,
		string(c.Kind),
		c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert chat for user %q: %w", c.UserID, err)
	}
	return nil
}

// ListByUser returns the user's chats, newest first.
func (r *ChatSQLite) ListByUser(ctx context.Context, userID string, limit int) ([]models.Chat, error) {
	q := selectChatsByUserSQL
	args := []any{userID}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select chats for user %q: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.Chat, 0, 16)
	for rows.Next() {
		var (
			c    models.Chat
			kind string
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.Question, &c.Answer, &kind, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		c.Kind = models.ChatKind(kind)
		c.CreatedAt = c.CreatedAt.UTC()
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
