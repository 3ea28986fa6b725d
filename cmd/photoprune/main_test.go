package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/photo-host/internal/domain"
	"github.com/msomdec/photo-host/internal/repository/localfs"
	"github.com/msomdec/photo-host/internal/repository/sqlite"
)

func setupEnv(t *testing.T) (dbPath, root string) {
	t.Helper()
	dir := t.TempDir()
	dbPath = filepath.Join(dir, "prune.db")
	root = filepath.Join(dir, "uploads")
	t.Setenv("JWT_SECRET", "prune-test-secret-0123456789abcdef")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_PATH", dbPath)
	t.Setenv("FILE_STORE", "local")
	t.Setenv("STORAGE_ROOT", root)
	t.Setenv("LOG_LEVEL", "error")
	return dbPath, root
}

func TestRun_PrunesOldPhotos(t *testing.T) {
	dbPath, root := setupEnv(t)
	ctx := context.Background()

	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	store := localfs.New(root)
	path, err := store.Put(ctx, []byte("\x89PNG\r\n\x1a\npixels"), ".png")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	old := &domain.Photo{
		ID:         uuid.NewString(),
		FileName:   "old.png",
		Path:       path,
		Size:       14,
		UploadedAt: time.Now().UTC().Add(-48 * time.Hour),
	}
	if err := db.Photos().Insert(ctx, old); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	db.Close()

	var out bytes.Buffer
	if code := run([]string{"-older-than", "24h"}, &out); code != 0 {
		t.Fatalf("run exit code = %d, output %q", code, out.String())
	}
	if !strings.Contains(out.String(), "deleted 1 photo(s)") {
		t.Fatalf("unexpected output %q", out.String())
	}
	if _, err := os.Stat(filepath.Join(root, path)); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err = %v", err)
	}

	// The database handle was released, so it can be opened again.
	db, err = sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	defer db.Close()
	if _, err := db.Photos().FindByID(ctx, old.ID); err == nil {
		t.Fatal("expected record to be deleted")
	}
}

func TestRun_Failures(t *testing.T) {
	setupEnv(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"bad flag", []string{"-older-than", "soon"}, 2},
		{"non-positive age", []string{"-older-than", "0s"}, 1},
		{"missing env file", []string{"-env", filepath.Join(t.TempDir(), "nope.env")}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			if code := run(tc.args, &out); code != tc.want {
				t.Fatalf("run(%v) = %d, want %d", tc.args, code, tc.want)
			}
		})
	}
}
