package db_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ecostudy/internal/models"
	"ecostudy/internal/repository"
	"ecostudy/internal/repository/db"
)

func openTestDB(t *testing.T) *repository.Repository {
	t.Helper()
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return repository.NewRepository(conn)
}

func TestInitDB_SchemaSupportsUserAndChatRoundTrip(t *testing.T) {
	repos := openTestDB(t)
	ctx := context.Background()

	u := &models.User{Name: "Ana", Email: "ana@x.com", PasswordHash: "hash"}
	if err := repos.Users.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	dup := &models.User{Name: "Ana 2", Email: "ana@x.com", PasswordHash: "hash"}
	if err := repos.Users.Create(ctx, dup); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	got, err := repos.Users.GetByEmail(ctx, "ana@x.com")
	if err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("GetByEmail: got %+v, err %v", got, err)
	}

	base := time.Now().UTC()
	for i, q := range []string{"first", "second", "third"} {
		c := &models.Chat{
			UserID:    u.ID,
			Question:  q,
			Answer:    "a",
			Kind:      models.KindText,
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		}
		if err := repos.Chats.Append(ctx, c); err != nil {
			t.Fatalf("append chat: %v", err)
		}
	}

	history, err := repos.Chats.ListByUser(ctx, u.ID, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(history) != 3 || history[0].Question != "third" || history[2].Question != "first" {
		t.Fatalf("unexpected order: %+v", history)
	}

	limited, err := repos.Chats.ListByUser(ctx, u.ID, 1)
	if err != nil || len(limited) != 1 || limited[0].Question != "third" {
		t.Fatalf("limit: got %+v, err %v", limited, err)
	}
}

func TestInitDB_ChatKindConstraint(t *testing.T) {
	repos := openTestDB(t)
	ctx := context.Background()

	u := &models.User{Name: "Bob", Email: "bob@x.com", PasswordHash: "hash"}
	if err := repos.Users.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	err := repos.Chats.Append(ctx, &models.Chat{UserID: u.ID, Question: "q", Answer: "a", Kind: "video"})
	if err == nil {
		t.Fatalf("expected CHECK constraint failure for unknown kind")
	}
}

func TestInitDB_SourcesReplace(t *testing.T) {
	repos := openTestDB(t)
	ctx := context.Background()

	if err := repos.Sources.Replace(ctx, []models.Source{{Title: "old", Type: models.SourcePDF}}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := repos.Sources.Replace(ctx, []models.Source{
		{Title: "Oligopoly Theory PDF", Type: models.SourcePDF},
		{Title: "Kinked Demand Visuals", Type: models.SourceVideo},
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := repos.Sources.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Oligopoly Theory PDF" || got[1].Title != "Kinked Demand Visuals" {
		t.Fatalf("unexpected sources: %+v", got)
	}
}
