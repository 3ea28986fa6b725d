package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/msomdec/photo-host/internal/domain"
)

// PhotoRepository implements domain.PhotoRepository using PostgreSQL.
type PhotoRepository struct {
	pool *pgxpool.Pool
}

func NewPhotoRepository(db *DB) *PhotoRepository {
	return &PhotoRepository{pool: db.Pool}
}

const (
	photoColumns = `id, file_name, path, owner_id, size, upload_date`
	newestFirst  = ` ORDER BY upload_date DESC, id DESC`
)

func (r *PhotoRepository) Insert(ctx context.Context, photo *domain.Photo) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO photos (`+photoColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		photo.ID, photo.FileName, photo.Path, nullable(photo.OwnerID), photo.Size, photo.UploadedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert photo %s: %w", photo.ID, domain.ErrConflict)
		}
		return fmt.Errorf("insert photo: %w", err)
	}
	return nil
}

func (r *PhotoRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Photo, error) {
	return r.list(ctx, `WHERE owner_id = $1`, ownerID)
}

func (r *PhotoRepository) ListAll(ctx context.Context) ([]domain.Photo, error) {
	return r.list(ctx, "")
}

func (r *PhotoRepository) ListBetween(ctx context.Context, ownerID string, from, to time.Time) ([]domain.Photo, error) {
	if ownerID != "" {
		return r.list(ctx, `WHERE owner_id = $1 AND upload_date >= $2 AND upload_date <= $3`, ownerID, from.UTC(), to.UTC())
	}
	return r.list(ctx, `WHERE upload_date >= $1 AND upload_date <= $2`, from.UTC(), to.UTC())
}

func (r *PhotoRepository) ListUploadedBefore(ctx context.Context, cutoff time.Time) ([]domain.Photo, error) {
	return r.list(ctx, `WHERE upload_date < $1`, cutoff.UTC())
}

func (r *PhotoRepository) FindByID(ctx context.Context, id string) (*domain.Photo, error) {
	photo, err := scanPhoto(r.pool.QueryRow(ctx, `SELECT `+photoColumns+` FROM photos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get photo: %w", err)
	}
	return photo, nil
}

func (r *PhotoRepository) DeleteByID(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM photos WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PhotoRepository) Stats(ctx context.Context, ownerID string) (*domain.PhotoStats, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(size), 0)::BIGINT, MIN(upload_date), MAX(upload_date) FROM photos`
	var args []any
	if ownerID != "" {
		query += ` WHERE owner_id = $1`
		args = append(args, ownerID)
	}

	stats := &domain.PhotoStats{}
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&stats.Count, &stats.TotalBytes, &stats.Oldest, &stats.Newest,
	); err != nil {
		return nil, fmt.Errorf("photo stats: %w", err)
	}
	return stats, nil
}

func (r *PhotoRepository) list(ctx context.Context, where string, args ...any) ([]domain.Photo, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+photoColumns+` FROM photos `+where+newestFirst, args...)
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

func scanPhoto(row pgx.Row) (*domain.Photo, error) {
	var (
		p     domain.Photo
		owner *string
	)
	if err := row.Scan(&p.ID, &p.FileName, &p.Path, &owner, &p.Size, &p.UploadedAt); err != nil {
		return nil, err
	}
	if owner != nil {
		p.OwnerID = *owner
	}
	p.UploadedAt = p.UploadedAt.UTC()
	return &p, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
