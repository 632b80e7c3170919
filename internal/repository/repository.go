package repository

import (
	"context"
	"database/sql"
	"errors"

	"ecostudy/internal/models"
)

// ErrDuplicate is returned when a unique key (user email) already exists.
var ErrDuplicate = errors.New("duplicate record")

// Users is the credential store.
type Users interface {
	// Create stores u, filling ID and CreatedAt when empty.
	Create(ctx context.Context, u *models.User) error
	// GetByEmail returns (nil, nil) if no user has that email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Chats is the append-only transcript store.
type Chats interface {
	Append(ctx context.Context, c *models.Chat) error
	// ListByUser returns the user's chats newest first; limit <= 0 means all.
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Chat, error)
}

// Sources holds the seeded study material list.
type Sources interface {
	Replace(ctx context.Context, sources []models.Source) error
	List(ctx context.Context) ([]models.Source, error)
}

type Repository struct {
	Users   Users
	Chats   Chats
	Sources Sources
}

// NewRepository builds the SQLite-backed repositories.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:   NewUserRepository(db),
		Chats:   NewChatSQLite(db),
		Sources: NewSourceSQLite(db),
	}
}
