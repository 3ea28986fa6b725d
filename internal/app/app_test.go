package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/msomdec/photo-host/internal/app"
	"github.com/msomdec/photo-host/internal/config"
	"github.com/msomdec/photo-host/internal/repository/localfs"
)

func testConfig(t *testing.T, store string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg, err := config.Parse(func(key string) (string, bool) {
		v, ok := map[string]string{
			"JWT_SECRET":    "0123456789abcdef0123456789abcdef",
			"DATABASE_PATH": filepath.Join(dir, "app.db"),
			"STORAGE_ROOT":  filepath.Join(dir, "uploads"),
			"FILE_STORE":    store,
			"BCRYPT_COST":   "4",
		}[key]
		return v, ok
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return cfg
}

func TestOpen_LocalStore(t *testing.T) {
	a, err := app.Open(context.Background(), testConfig(t, config.StoreLocal))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()

	if _, ok := a.Files.(*localfs.FileStore); !ok {
		t.Fatalf("expected local file store, got %T", a.Files)
	}
	if !a.Photos.OwnershipEnforced() {
		t.Fatal("expected ownership enforced by default")
	}
}

func TestOpen_BlobStore(t *testing.T) {
	ctx := context.Background()
	a, err := app.Open(ctx, testConfig(t, config.StoreSQLite))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()

	if _, ok := a.Files.(*localfs.FileStore); ok {
		t.Fatal("expected blob store, got local file store")
	}

	user, err := a.Auth.Register(ctx, "app@example.com", "App", "", "password123", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	data := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	photo, err := a.Photos.Upload(ctx, user.ID, "cat.png", int64(len(data)), data)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	got, contentType, err := a.Photos.Open(ctx, photo.ID)
	if err != nil || len(got) != len(data) || contentType != "image/png" {
		t.Fatalf("Open = %d bytes, %q, %v", len(got), contentType, err)
	}
}
