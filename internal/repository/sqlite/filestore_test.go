package sqlite_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/msomdec/photo-host/internal/domain"
)

func TestBlobFileStore_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	store := db.FileStore()
	ctx := context.Background()
	data := []byte("\x89PNG\r\n\x1a\nfake")

	key, err := store.Put(ctx, data, ".png")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Fatalf("expected key with .png suffix, got %q", key)
	}

	ok, err := store.Exists(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v; want true", ok, err)
	}

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("stored bytes differ from uploaded bytes")
	}

	if err := store.Remove(ctx, key); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := store.Remove(ctx, key); err != nil {
		t.Fatalf("Remove of missing blob should be a no-op, got %v", err)
	}
	if _, err := store.Get(ctx, key); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBlobFileStore_UniqueKeys(t *testing.T) {
	db := newTestDB(t)
	store := db.FileStore()
	ctx := context.Background()

	k1, err := store.Put(ctx, []byte("a"), ".jpg")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	k2, err := store.Put(ctx, []byte("a"), ".jpg")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if k1 == k2 {
		t.Fatal("expected distinct keys for identical uploads")
	}
}
