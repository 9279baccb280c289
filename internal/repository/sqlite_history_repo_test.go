package repository

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteHistoryRepository_Contract(t *testing.T) {
	repo, err := NewSQLiteHistoryRepository(":memory:")
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	defer repo.Close()

	if err := exerciseHistoryRepository(context.Background(), repo); err != nil {
		t.Fatal(err)
	}
}

func TestSQLiteHistoryRepository_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversations.db")
	ctx := context.Background()

	repo, err := NewSQLiteHistoryRepository(path)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	if err := repo.Append(ctx, newTestRecord("id-1", "c1", "hi", "hello")); err != nil {
		t.Fatalf("append: %v", err)
	}
	repo.Close()

	repo, err = NewSQLiteHistoryRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()

	out, err := repo.ListByClientID(ctx, "c1")
	if err != nil || len(out) != 1 || out[0].ID != "id-1" {
		t.Fatalf("expected persisted record, got %+v,%v", out, err)
	}
	if err := repo.Append(ctx, newTestRecord("id-1", "c1", "dup", "dup")); err == nil {
		t.Fatalf("expected unique id violation")
	}
}
