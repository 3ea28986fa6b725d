package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/photo-host/internal/domain"
)

// PhotoRepository implements domain.PhotoRepository using SQLite.
type PhotoRepository struct {
	db *sql.DB
}

// NewPhotoRepository creates a new SQLite-backed PhotoRepository.
func NewPhotoRepository(db *DB) *PhotoRepository {
	return &PhotoRepository{db: db.SqlDB}
}

const (
	photoColumns = `id, file_name, path, owner_id, size, upload_date`
	newestFirst  = ` ORDER BY upload_date DESC, rowid DESC`
)

func (r *PhotoRepository) Insert(ctx context.Context, photo *domain.Photo) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO photos (`+photoColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		photo.ID, photo.FileName, photo.Path, nullString(photo.OwnerID),
		photo.Size, photo.UploadedAt.UTC(),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("insert photo %s: %w", photo.ID, domain.ErrConflict)
		}
		return fmt.Errorf("insert photo: %w", err)
	}
	return nil
}

func (r *PhotoRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Photo, error) {
	return r.list(ctx, `WHERE owner_id = ?`, ownerID)
}

func (r *PhotoRepository) ListAll(ctx context.Context) ([]domain.Photo, error) {
	return r.list(ctx, "")
}

func (r *PhotoRepository) ListBetween(ctx context.Context, ownerID string, from, to time.Time) ([]domain.Photo, error) {
	if ownerID != "" {
		return r.list(ctx, `WHERE owner_id = ? AND upload_date >= ? AND upload_date <= ?`, ownerID, from.UTC(), to.UTC())
	}
	return r.list(ctx, `WHERE upload_date >= ? AND upload_date <= ?`, from.UTC(), to.UTC())
}

func (r *PhotoRepository) ListUploadedBefore(ctx context.Context, cutoff time.Time) ([]domain.Photo, error) {
	return r.list(ctx, `WHERE upload_date < ?`, cutoff.UTC())
}

func (r *PhotoRepository) FindByID(ctx context.Context, id string) (*domain.Photo, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+photoColumns+` FROM photos WHERE id = ?`, id)
	photo, err := scanPhoto(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get photo: %w", err)
	}
	return photo, nil
}

func (r *PhotoRepository) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM photos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PhotoRepository) Stats(ctx context.Context, ownerID string) (*domain.PhotoStats, error) {
	where, args := "", []any{}
	if ownerID != "" {
		where, args = " WHERE owner_id = ?", []any{ownerID}
	}

	stats := &domain.PhotoStats{}
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(size), 0) FROM photos`+where, args...,
	).Scan(&stats.Count, &stats.TotalBytes)
	if err != nil {
		return nil, fmt.Errorf("count photos: %w", err)
	}
	if stats.Count == 0 {
		return stats, nil
	}

	// Aggregates lose the DATETIME column type, so read the bounds as rows.
	for _, bound := range []struct {
		order string
		dst   **time.Time
	}{{"ASC", &stats.Oldest}, {"DESC", &stats.Newest}} {
		var t time.Time
		err := r.db.QueryRowContext(ctx,
			`SELECT upload_date FROM photos`+where+` ORDER BY upload_date `+bound.order+` LIMIT 1`, args...,
		).Scan(&t)
		if err != nil {
			return nil, fmt.Errorf("photo upload bounds: %w", err)
		}
		*bound.dst = &t
	}
	return stats, nil
}

func (r *PhotoRepository) list(ctx context.Context, where string, args ...any) ([]domain.Photo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+photoColumns+` FROM photos `+where+newestFirst, args...)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	var photos []domain.Photo
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		photos = append(photos, *photo)
	}
	return photos, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhoto(s rowScanner) (*domain.Photo, error) {
	var (
		p     domain.Photo
		owner sql.NullString
	)
	if err := s.Scan(&p.ID, &p.FileName, &p.Path, &owner, &p.Size, &p.UploadedAt); err != nil {
		return nil, err
	}
	p.OwnerID = owner.String
	p.UploadedAt = p.UploadedAt.UTC()
	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
