package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "tasks-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func exerciseKV(t *testing.T, store KV) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "tasks-state"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got: %v", err)
	}

	if err := store.Set(ctx, "tasks-state", "v1"); err != nil {
		t.Fatalf("set v1: %v", err)
	}
	if err := store.Set(ctx, "tasks-state", "v2"); err != nil {
		t.Fatalf("set v2: %v", err)
	}
	got, err := store.Get(ctx, "tasks-state")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "v2" {
		t.Fatalf("expected overwrite to v2, got %q", got)
	}

	if err := store.Set(ctx, "other", ""); err != nil {
		t.Fatalf("set empty value: %v", err)
	}
	if v, err := store.Get(ctx, "other"); err != nil || v != "" {
		t.Fatalf("expected empty value stored, got %q err=%v", v, err)
	}

	if err := store.Delete(ctx, "tasks-state"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "tasks-state"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got: %v", err)
	}
	if _, err := store.Get(ctx, "tasks-state"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got: %v", err)
	}
}

func TestMemoryStoreKV(t *testing.T) {
	exerciseKV(t, NewMemoryStore())
}

func TestSQLiteStoreKV(t *testing.T) {
	exerciseKV(t, setupSQLite(t))
}

func TestSQLiteStoreUpdatedAt(t *testing.T) {
	store := setupSQLite(t)
	ctx := context.Background()
	stamp := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return stamp }

	if err := store.Set(ctx, "tasks-state", "{}"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.UpdatedAt(ctx, "tasks-state")
	if err != nil {
		t.Fatalf("updated_at: %v", err)
	}
	if !got.Equal(stamp) {
		t.Fatalf("updated_at = %v, want %v", got, stamp)
	}
	if _, err := store.UpdatedAt(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	first, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Set(ctx, "tasks-state", "kept"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	got, err := second.Get(ctx, "tasks-state")
	if err != nil || got != "kept" {
		t.Fatalf("expected kept after reopen, got %q err=%v", got, err)
	}
}
