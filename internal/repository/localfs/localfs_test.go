package localfs_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/msomdec/photo-host/internal/domain"
	"github.com/msomdec/photo-host/internal/repository/localfs"
)

var _ domain.FileStore = (*localfs.FileStore)(nil)

func TestFileStore_PutCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "uploads")
	store := localfs.New(root)
	data := []byte("jpeg bytes")

	key, err := store.Put(context.Background(), data, ".jpg")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !strings.HasSuffix(key, ".jpg") || strings.ContainsAny(key, `/\`) {
		t.Fatalf("unexpected key %q", key)
	}

	onDisk, err := os.ReadFile(filepath.Join(root, key))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if !bytes.Equal(onDisk, data) {
		t.Fatal("stored bytes differ")
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file (no temp leftovers), got %d", len(entries))
	}
}

func TestFileStore_PutDirectoryFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := localfs.New(filepath.Join(blocker, "uploads"))
	_, err := store.Put(context.Background(), []byte("x"), ".png")
	if !errors.Is(err, domain.ErrDirectory) {
		t.Fatalf("expected ErrDirectory, got %v", err)
	}
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage category, got %v", err)
	}
}

func TestFileStore_GetExistsRemove(t *testing.T) {
	store := localfs.New(t.TempDir())
	ctx := context.Background()

	key, err := store.Put(ctx, []byte("png"), ".png")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	ok, err := store.Exists(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
	got, err := store.Get(ctx, key)
	if err != nil || string(got) != "png" {
		t.Fatalf("Get = %q, %v", got, err)
	}

	if err := store.Remove(ctx, key); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := store.Remove(ctx, key); err != nil {
		t.Fatalf("Remove of missing file: %v", err)
	}
	ok, err = store.Exists(ctx, key)
	if err != nil || ok {
		t.Fatalf("Exists after remove = %v, %v", ok, err)
	}
	if _, err := store.Get(ctx, key); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStore_RejectsEscapingKeys(t *testing.T) {
	store := localfs.New(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"", "..", "../secret.png", "a/b.png", `a\b.png`} {
		if _, err := store.Get(ctx, key); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Get(%q): expected ErrInvalidInput, got %v", key, err)
		}
		if err := store.Remove(ctx, key); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Remove(%q): expected ErrInvalidInput, got %v", key, err)
		}
	}
}

func TestFileStore_UniqueKeys(t *testing.T) {
	store := localfs.New(t.TempDir())
	ctx := context.Background()

	seen := make(map[string]bool)
	for range 20 {
		key, err := store.Put(ctx, []byte("same"), ".jpg")
		if err != nil {
			t.Fatalf("Put: %v", err)
		}
		if seen[key] {
			t.Fatalf("duplicate key %q", key)
		}
		seen[key] = true
	}
}
