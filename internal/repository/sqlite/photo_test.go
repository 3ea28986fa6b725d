package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/photo-host/internal/domain"
	"github.com/msomdec/photo-host/internal/repository/sqlite"
)

func newPhoto(ownerID string, uploadedAt time.Time) *domain.Photo {
	return &domain.Photo{
		ID:         uuid.NewString(),
		FileName:   "cat.png",
		Path:       uuid.NewString() + ".png",
		OwnerID:    ownerID,
		Size:       1024,
		UploadedAt: uploadedAt,
	}
}

func insertPhoto(t *testing.T, repo *sqlite.PhotoRepository, p *domain.Photo) {
	t.Helper()
	if err := repo.Insert(context.Background(), p); err != nil {
		t.Fatalf("Insert: %v", err)
	}
}

func TestPhotoRepository_InsertAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewPhotoRepository(db)
	owner := seedUser(t, db, "owner@example.com")

	p := newPhoto(owner.ID, time.Now().UTC())
	p.FileName = "../../etc/passwd.png"
	insertPhoto(t, repo, p)

	got, err := repo.FindByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.FileName != p.FileName || got.Path != p.Path || got.OwnerID != owner.ID || got.Size != 1024 {
		t.Fatalf("unexpected photo: %+v", got)
	}
	if !got.UploadedAt.Equal(p.UploadedAt) {
		t.Fatalf("expected UploadedAt %v, got %v", p.UploadedAt, got.UploadedAt)
	}
}

func TestPhotoRepository_InsertWithoutOwner(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewPhotoRepository(db)

	p := newPhoto("", time.Now().UTC())
	insertPhoto(t, repo, p)

	got, err := repo.FindByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.OwnerID != "" {
		t.Fatalf("expected empty owner, got %q", got.OwnerID)
	}
}

func TestPhotoRepository_Insert_Conflict(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewPhotoRepository(db)
	ctx := context.Background()

	p := newPhoto("", time.Now().UTC())
	insertPhoto(t, repo, p)

	sameID := newPhoto("", time.Now().UTC())
	sameID.ID = p.ID
	if err := repo.Insert(ctx, sameID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate id, got %v", err)
	}

	samePath := newPhoto("", time.Now().UTC())
	samePath.Path = p.Path
	if err := repo.Insert(ctx, samePath); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate path, got %v", err)
	}
}

func TestPhotoRepository_Insert_UnknownOwner(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewPhotoRepository(db)

	err := repo.Insert(context.Background(), newPhoto("ghost", time.Now().UTC()))
	if err == nil {
		t.Fatal("expected error for owner that does not exist")
	}
}

func TestPhotoRepository_ListOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewPhotoRepository(db)
	ctx := context.Background()
	u1 := seedUser(t, db, "u1@example.com")
	u2 := seedUser(t, db, "u2@example.com")

	base := time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC)
	oldest := newPhoto(u1.ID, base)
	middle := newPhoto(u2.ID, base.Add(time.Hour))
	newest := newPhoto(u1.ID, base.Add(2*time.Hour))
	for _, p := range []*domain.Photo{middle, newest, oldest} {
		insertPhoto(t, repo, p)
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	wantAll := []string{newest.ID, middle.ID, oldest.ID}
	if len(all) != len(wantAll) {
		t.Fatalf("expected %d photos, got %d", len(wantAll), len(all))
	}
	for i, id := range wantAll {
		if all[i].ID != id {
			t.Fatalf("ListAll[%d] = %s, want %s", i, all[i].ID, id)
		}
	}

	mine, err := repo.ListByOwner(ctx, u1.ID)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != newest.ID || mine[1].ID != oldest.ID {
		t.Fatalf("unexpected owner listing: %+v", mine)
	}
	for _, p := range mine {
		if p.OwnerID != u1.ID {
			t.Fatalf("ListByOwner returned photo of owner %s", p.OwnerID)
		}
	}
}

func TestPhotoRepository_ListBetweenAndBefore(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewPhotoRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	jan := newPhoto("", base)
	feb := newPhoto("", base.AddDate(0, 1, 0))
	mar := newPhoto("", base.AddDate(0, 2, 0))
	for _, p := range []*domain.Photo{jan, feb, mar} {
		insertPhoto(t, repo, p)
	}

	between, err := repo.ListBetween(ctx, "", base.AddDate(0, 1, 0), base.AddDate(0, 2, 0))
	if err != nil {
		t.Fatalf("ListBetween: %v", err)
	}
	if len(between) != 2 || between[0].ID != mar.ID || between[1].ID != feb.ID {
		t.Fatalf("unexpected range result: %+v", between)
	}

	before, err := repo.ListUploadedBefore(ctx, base.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("ListUploadedBefore: %v", err)
	}
	if len(before) != 1 || before[0].ID != jan.ID {
		t.Fatalf("unexpected cutoff result: %+v", before)
	}
}

func TestPhotoRepository_ListBetween_Owner(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewPhotoRepository(db)
	ctx := context.Background()
	u1 := seedUser(t, db, "range1@example.com")
	u2 := seedUser(t, db, "range2@example.com")

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mine := newPhoto(u1.ID, at)
	theirs := newPhoto(u2.ID, at.Add(time.Minute))
	insertPhoto(t, repo, mine)
	insertPhoto(t, repo, theirs)

	got, err := repo.ListBetween(ctx, u1.ID, at.Add(-time.Hour), at.Add(time.Hour))
	if err != nil {
		t.Fatalf("ListBetween: %v", err)
	}
	if len(got) != 1 || got[0].ID != mine.ID {
		t.Fatalf("expected only u1's photo, got %+v", got)
	}

	all, err := repo.ListBetween(ctx, "", at.Add(-time.Hour), at.Add(time.Hour))
	if err != nil {
		t.Fatalf("ListBetween (all owners): %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected both photos without an owner filter, got %d", len(all))
	}
}

func TestPhotoRepository_DeleteByID(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewPhotoRepository(db)
	ctx := context.Background()

	p := newPhoto("", time.Now().UTC())
	insertPhoto(t, repo, p)

	if err := repo.DeleteByID(ctx, p.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if _, err := repo.FindByID(ctx, p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.DeleteByID(ctx, p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestPhotoRepository_Stats(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewPhotoRepository(db)
	ctx := context.Background()
	u1 := seedUser(t, db, "stats@example.com")

	empty, err := repo.Stats(ctx, "")
	if err != nil {
		t.Fatalf("Stats (empty): %v", err)
	}
	if empty.Count != 0 || empty.Oldest != nil || empty.Newest != nil {
		t.Fatalf("expected zero stats, got %+v", empty)
	}

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	a := newPhoto(u1.ID, base)
	b := newPhoto(u1.ID, base.Add(time.Hour))
	b.Size = 2048
	c := newPhoto("", base.Add(2*time.Hour))
	for _, p := range []*domain.Photo{a, b, c} {
		insertPhoto(t, repo, p)
	}

	all, err := repo.Stats(ctx, "")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if all.Count != 3 || all.TotalBytes != 1024+2048+1024 {
		t.Fatalf("unexpected totals: %+v", all)
	}
	if !all.Oldest.Equal(a.UploadedAt) || !all.Newest.Equal(c.UploadedAt) {
		t.Fatalf("unexpected bounds: oldest=%v newest=%v", all.Oldest, all.Newest)
	}

	mine, err := repo.Stats(ctx, u1.ID)
	if err != nil {
		t.Fatalf("Stats (owner): %v", err)
	}
	if mine.Count != 2 || !mine.Newest.Equal(b.UploadedAt) {
		t.Fatalf("unexpected owner stats: %+v", mine)
	}
}
