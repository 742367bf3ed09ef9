package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"telegram-uid-keeper/internal/domain"
	"telegram-uid-keeper/internal/domain/model"
	"telegram-uid-keeper/internal/domain/ports/repository"
)

func newTestRepo(t *testing.T) *RecordRepo {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return NewRecordRepo(db)
}

func mustRecord(t *testing.T, uid string, by, chat int64) *model.UIDRecord {
	t.Helper()
	rec, err := model.NewUIDRecord(uid, by, chat, "", "")
	if err != nil {
		t.Fatalf("NewUIDRecord(%q): %v", uid, err)
	}
	return rec
}

func TestRecordRepo_SaveIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	first := mustRecord(t, "1234567", 10, 20)
	saved, created, err := repo.Save(ctx, first)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	if !created {
		t.Fatal("expected first save to create a row")
	}

	// Duplicate save must return the original row unchanged.
	dup := mustRecord(t, "1234567", 99, 88)
	saved, created, err = repo.Save(ctx, dup)
	if err != nil {
		t.Fatalf("duplicate save: %v", err)
	}
	if created {
		t.Error("expected duplicate save to be a no-op")
	}
	if saved.SubmittedBy != 10 {
		t.Errorf("expected original submitter 10, got %d", saved.SubmittedBy)
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected exactly one record, got %d", n)
	}
}

func TestRecordRepo_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if _, _, err := repo.Save(ctx, mustRecord(t, "111", 1, 1)); err != nil {
		t.Fatalf("save: %v", err)
	}

	t.Run("existing uid is removed", func(t *testing.T) {
		removed, err := repo.Delete(ctx, "111")
		if err != nil {
			t.Fatalf("delete: %v", err)
		}
		if !removed {
			t.Error("expected delete to report a removed row")
		}
	})

	t.Run("missing uid returns false and leaves the count alone", func(t *testing.T) {
		removed, err := repo.Delete(ctx, "does-not-exist")
		if err != nil {
			t.Fatalf("delete: %v", err)
		}
		if removed {
			t.Error("expected delete of a missing uid to return false")
		}
		n, _ := repo.Count(ctx)
		if n != 0 {
			t.Errorf("expected count 0, got %d", n)
		}
	})
}

func TestRecordRepo_ListOrderingAndFilter(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for _, uid := range []string{"3", "1", "2"} {
		by := int64(1)
		if uid == "2" {
			by = 2
		}
		if _, _, err := repo.Save(ctx, mustRecord(t, uid, by, 7)); err != nil {
			t.Fatalf("save %s: %v", uid, err)
		}
	}

	all, err := repo.List(ctx, repository.ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.Before(all[i-1].CreatedAt) {
			t.Error("expected created_at ascending order")
		}
	}

	bySubmitter, err := repo.List(ctx, repository.ListFilter{SubmittedBy: 2})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(bySubmitter) != 1 || bySubmitter[0].UID != "2" {
		t.Errorf("expected only uid 2 for submitter 2, got %+v", bySubmitter)
	}
}

func TestRecordRepo_FindAndSearch(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	rec, _ := model.NewUIDRecord("424242", 1, 1, "interesting profile", "https://facebook.com/424242")
	if _, _, err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	t.Run("find existing", func(t *testing.T) {
		got, err := repo.Find(ctx, "424242")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if got.Note != "interesting profile" {
			t.Errorf("unexpected note %q", got.Note)
		}
	})

	t.Run("find missing maps to ErrNotFound", func(t *testing.T) {
		_, err := repo.Find(ctx, "0")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("search matches uid and note", func(t *testing.T) {
		byUID, err := repo.Search(ctx, "4242", 10)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(byUID) != 1 {
			t.Errorf("expected one match by uid, got %d", len(byUID))
		}
		byNote, err := repo.Search(ctx, "interesting", 10)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(byNote) != 1 {
			t.Errorf("expected one match by note, got %d", len(byNote))
		}
	})
}

func TestRecordRepo_DeleteByChatAndLastSavedAt(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	last, err := repo.LastSavedAt(ctx)
	if err != nil {
		t.Fatalf("last saved at: %v", err)
	}
	if !last.IsZero() {
		t.Error("expected zero time for empty table")
	}

	for _, uid := range []string{"1", "2", "3"} {
		chat := int64(5)
		if uid == "3" {
			chat = 6
		}
		if _, _, err := repo.Save(ctx, mustRecord(t, uid, 1, chat)); err != nil {
			t.Fatalf("save %s: %v", uid, err)
		}
	}

	removed, err := repo.DeleteByChat(ctx, 5)
	if err != nil {
		t.Fatalf("delete by chat: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed rows, got %d", removed)
	}

	last, err = repo.LastSavedAt(ctx)
	if err != nil {
		t.Fatalf("last saved at: %v", err)
	}
	if last.IsZero() {
		t.Error("expected non-zero last saved time")
	}
}
