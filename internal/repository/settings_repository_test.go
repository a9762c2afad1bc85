package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestRepo(t *testing.T) (*SQLiteSettingsRepository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := NewSQLiteSettingsRepository(dir)
	if err != nil {
		t.Fatalf("NewSQLiteSettingsRepository failed: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo, dir
}

func TestNewSQLiteSettingsRepository(t *testing.T) {
	repo, dir := newTestRepo(t)

	if _, err := os.Stat(filepath.Join(dir, settingsDBName)); err != nil {
		t.Errorf("database file should exist: %v", err)
	}
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestSQLiteSettingsRepository_GetMissing(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Get(context.Background(), "isSubscribed")
	if !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("expected ErrSettingNotFound, got %v", err)
	}
}

func TestSQLiteSettingsRepository_SetGetDelete(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "isSubscribed", "true"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := repo.Get(ctx, "isSubscribed")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "true" {
		t.Errorf("value = %q, want %q", got, "true")
	}

	// Overwrite
	if err := repo.Set(ctx, "isSubscribed", "false"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, _ := repo.Get(ctx, "isSubscribed"); got != "false" {
		t.Errorf("value = %q, want %q", got, "false")
	}

	if err := repo.Delete(ctx, "isSubscribed"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.Get(ctx, "isSubscribed"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("expected ErrSettingNotFound after delete, got %v", err)
	}

	// Deleting again is fine
	if err := repo.Delete(ctx, "isSubscribed"); err != nil {
		t.Errorf("second Delete failed: %v", err)
	}
}

func TestSQLiteSettingsRepository_PersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo, err := NewSQLiteSettingsRepository(dir)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := repo.Set(ctx, "isSubscribed", "true"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	repo.Close()

	reopened, err := NewSQLiteSettingsRepository(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "isSubscribed")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "true" {
		t.Errorf("value = %q, want %q", got, "true")
	}
}
