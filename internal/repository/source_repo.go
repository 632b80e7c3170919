package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ecostudy/internal/models"

	"github.com/google/uuid"
)

type SourceSQLite struct {
	db *sql.DB
}

func NewSourceSQLite(db *sql.DB) *SourceSQLite { return &SourceSQLite{db: db} }

var _ Sources = (*SourceSQLite)(nil)

const (
	deleteSourcesSQL = `DELETE FROM sources`
	insertSourceSQL  = `INSERT INTO sources (id, title, type, url, created_at) VALUES (?, ?, ?, ?, ?)`
	selectSourcesSQL = `SELECT id, title, type, url, created_at FROM sources ORDER BY created_at ASC, rowid ASC`
)

// Replace swaps the whole source list in one transaction.
func (r *SourceSQLite) Replace(ctx context.Context, sources []models.Source) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace sources: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, deleteSourcesSQL); err != nil {
		return fmt.Errorf("delete sources: %w", err)
	}

	now := time.Now().UTC()
	for i := range sources {
		s := &sources[i]
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		var url *string
		if s.URL != "" {
			url = &s.URL
		}
		if _, err := tx.ExecContext(ctx, insertSourceSQL, s.ID, s.Title, s.Type, url, s.CreatedAt.UTC()); err != nil {
			return fmt.Errorf("insert source %q: %w", s.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace sources: %w", err)
	}
	return nil
}

// List returns all sources in insertion order.
func (r *SourceSQLite) List(ctx context.Context) ([]models.Source, error) {
	rows, err := r.db.QueryContext(ctx, selectSourcesSQL)
	if err != nil {
		return nil, fmt.Errorf("select sources: %w", err)
	}
	defer rows.Close()

	out := make([]models.Source, 0, 4)
	for rows.Next() {
		var (
			s   models.Source
			url sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Title, &s.Type, &url, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		s.URL = url.String
		s.CreatedAt = s.CreatedAt.UTC()
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
