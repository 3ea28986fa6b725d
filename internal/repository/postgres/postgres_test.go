package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/photo-host/internal/domain"
	"github.com/msomdec/photo-host/internal/repository/postgres"
)

// newTestDB connects to PHOTOHOST_TEST_POSTGRES_URL and empties the tables.
// Tests are skipped when the variable is unset.
func newTestDB(t *testing.T) *postgres.DB {
	t.Helper()
	url := os.Getenv("PHOTOHOST_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("PHOTOHOST_TEST_POSTGRES_URL not set")
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, url)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if _, err := db.Pool.Exec(ctx, "TRUNCATE photos, users"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return db
}

func TestMigrateIdempotent(t *testing.T) {
	db := newTestDB(t)
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := db.Users()

	u := &domain.User{Email: "pg@example.com", FirstName: "Pg", PasswordHash: "hash"}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := users.Create(ctx, &domain.User{Email: "pg@example.com", PasswordHash: "x"}); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	u.Bio = "hello"
	if err := users.UpdateProfile(ctx, u); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	got, err := users.GetByEmail(ctx, "pg@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != u.ID || got.Bio != "hello" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if _, err := users.GetByID(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPhotoRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	photos := db.Photos()

	owner := &domain.User{Email: "owner@example.com", PasswordHash: "hash"}
	if err := db.Users().Create(ctx, owner); err != nil {
		t.Fatalf("Create user: %v", err)
	}

	base := time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC)
	older := &domain.Photo{ID: uuid.NewString(), FileName: "a.jpg", Path: uuid.NewString() + ".jpg", OwnerID: owner.ID, Size: 10, UploadedAt: base}
	newer := &domain.Photo{ID: uuid.NewString(), FileName: "b.png", Path: uuid.NewString() + ".png", Size: 20, UploadedAt: base.Add(time.Hour)}
	for _, p := range []*domain.Photo{older, newer} {
		if err := photos.Insert(ctx, p); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	if err := photos.Insert(ctx, older); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	all, err := photos.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 2 || all[0].ID != newer.ID || all[0].OwnerID != "" {
		t.Fatalf("unexpected listing: %+v", all)
	}

	mine, err := photos.ListByOwner(ctx, owner.ID)
	if err != nil || len(mine) != 1 || mine[0].ID != older.ID {
		t.Fatalf("ListByOwner = %+v, %v", mine, err)
	}

	stats, err := photos.Stats(ctx, "")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Count != 2 || stats.TotalBytes != 30 || !stats.Oldest.Equal(base) {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	if err := photos.DeleteByID(ctx, older.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if err := photos.DeleteByID(ctx, older.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
