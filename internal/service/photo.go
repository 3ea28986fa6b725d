package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/msomdec/photo-host/internal/domain"
)

// MaxFileNameLength is the longest original file name, in characters, a
// photo record can hold.
const MaxFileNameLength = 255

// PhotoConfig holds the upload rules for a PhotoService.
type PhotoConfig struct {
	AllowedExtensions []string // Lower-case, with leading dot
	MaxUploadSize     int64
	OwnershipEnforced bool
}

// DefaultPhotoConfig returns the rules used when nothing is configured.
func DefaultPhotoConfig() PhotoConfig {
	return PhotoConfig{
		AllowedExtensions: []string{".jpg", ".jpeg", ".png"},
		MaxUploadSize:     25 * 1024 * 1024,
		OwnershipEnforced: true,
	}
}

// PhotoService orchestrates the upload and delete lifecycle, keeping photo
// records and stored bytes consistent.
type PhotoService struct {
	photos domain.PhotoRepository
	files  domain.FileStore
	cfg    PhotoConfig
	now    func() time.Time
}

// NewPhotoService creates a new PhotoService.
func NewPhotoService(photos domain.PhotoRepository, files domain.FileStore, cfg PhotoConfig) *PhotoService {
	return &PhotoService{photos: photos, files: files, cfg: cfg, now: time.Now}
}

// Config returns the upload rules the service was built with.
func (s *PhotoService) Config() PhotoConfig {
	return s.cfg
}

// OwnershipEnforced reports whether photos are scoped to their owners.
func (s *PhotoService) OwnershipEnforced() bool {
	return s.cfg.OwnershipEnforced
}

// Upload validates one file, stores its bytes, then records it. If the
// record cannot be written the stored bytes are removed again.
func (s *PhotoService) Upload(ctx context.Context, ownerID, fileName string, size int64, data []byte) (*domain.Photo, error) {
	ownerID = ownerKey(ownerID)
	ext, err := s.validate(ownerID, fileName, size, data)
	if err != nil {
		return nil, err
	}

	path, err := s.files.Put(ctx, data, ext)
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	photo := &domain.Photo{
		ID:         uuid.NewString(),
		FileName:   fileName,
		Path:       path,
		OwnerID:    ownerID,
		Size:       size,
		UploadedAt: s.now().UTC(),
	}

	if err := s.photos.Insert(ctx, photo); err != nil {
		if rmErr := s.files.Remove(ctx, path); rmErr != nil {
			slog.Warn("cleanup after failed insert", "path", path, "error", rmErr)
		}
		return nil, fmt.Errorf("record photo: %w", err)
	}

	return photo, nil
}

func (s *PhotoService) validate(ownerID, fileName string, size int64, data []byte) (string, error) {
	if len(data) == 0 || size == 0 {
		return "", domain.ErrEmptyFile
	}
	if size > s.cfg.MaxUploadSize || int64(len(data)) > s.cfg.MaxUploadSize {
		return "", domain.ErrFileTooLarge
	}
	if utf8.RuneCountInString(fileName) > MaxFileNameLength {
		return "", domain.ErrFileNameTooLong
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" || !slices.Contains(s.cfg.AllowedExtensions, ext) {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedExtension, ext)
	}

	if s.cfg.OwnershipEnforced && ownerID == "" {
		return "", domain.ErrMissingOwner
	}

	switch http.DetectContentType(data) {
	case "image/jpeg", "image/png":
	default:
		return "", domain.ErrUnsupportedContent
	}
	return ext, nil
}

// UploadFile is one file of a batch upload.
type UploadFile struct {
	FileName string
	Size     int64
	Data     []byte
}

// UploadResult is the outcome of one file of a batch upload. Exactly one of
// Photo and Err is set.
type UploadResult struct {
	FileName string
	Photo    *domain.Photo
	Err      error
}

// UploadBatch uploads each file independently. A failing file never stops
// the others.
func (s *PhotoService) UploadBatch(ctx context.Context, ownerID string, files []UploadFile) []UploadResult {
	results := make([]UploadResult, 0, len(files))
	for _, f := range files {
		photo, err := s.Upload(ctx, ownerID, f.FileName, f.Size, f.Data)
		results = append(results, UploadResult{FileName: f.FileName, Photo: photo, Err: err})
	}
	return results
}

// Delete removes a photo's stored bytes and then its record. When the bytes
// cannot be removed the record is still deleted and the returned error wraps
// domain.ErrFileDeletion.
func (s *PhotoService) Delete(ctx context.Context, requesterID, photoID string) error {
	return s.delete(ctx, requesterID, photoID, s.cfg.OwnershipEnforced)
}

func (s *PhotoService) delete(ctx context.Context, requesterID, photoID string, checkOwner bool) error {
	photo, err := s.photos.FindByID(ctx, photoID)
	if err != nil {
		return fmt.Errorf("find photo: %w", err)
	}

	if checkOwner && photo.OwnerID != ownerKey(requesterID) {
		return domain.ErrForbidden
	}

	fileErr := s.files.Remove(ctx, photo.Path)
	if fileErr != nil {
		slog.Error("remove photo file", "photo_id", photo.ID, "path", photo.Path, "error", fileErr)
	}

	if err := s.photos.DeleteByID(ctx, photo.ID); err != nil {
		return fmt.Errorf("delete photo record: %w", err)
	}

	if fileErr != nil {
		if !errors.Is(fileErr, domain.ErrFileDeletion) {
			fileErr = fmt.Errorf("%w: %v", domain.ErrFileDeletion, fileErr)
		}
		return fmt.Errorf("photo %s deleted, file may remain: %w", photo.ID, fileErr)
	}
	return nil
}

// ownerKey is the canonical form of a caller or owner ID.
func ownerKey(id string) string {
	return strings.TrimSpace(id)
}

// scope returns the owner whose photos ownerID may see, or "" when every
// photo is visible.
func (s *PhotoService) scope(ownerID string) string {
	if !s.cfg.OwnershipEnforced {
		return ""
	}
	return ownerKey(ownerID)
}

// ListVisible returns the photos the caller may see, newest first.
func (s *PhotoService) ListVisible(ctx context.Context, ownerID string) ([]domain.Photo, error) {
	if owner := s.scope(ownerID); owner != "" {
		return s.photos.ListByOwner(ctx, owner)
	}
	return s.photos.ListAll(ctx)
}

// Get returns a single photo record.
func (s *PhotoService) Get(ctx context.Context, photoID string) (*domain.Photo, error) {
	return s.photos.FindByID(ctx, photoID)
}

// Open returns a photo's bytes and the content type to serve them with.
func (s *PhotoService) Open(ctx context.Context, photoID string) ([]byte, string, error) {
	photo, err := s.photos.FindByID(ctx, photoID)
	if err != nil {
		return nil, "", fmt.Errorf("find photo: %w", err)
	}
	data, err := s.files.Get(ctx, photo.Path)
	if err != nil {
		return nil, "", fmt.Errorf("read photo file: %w", err)
	}
	return data, contentTypeFor(photo.Path), nil
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// Search returns the photos visible to ownerID that were uploaded within
// [from, to], newest first.
func (s *PhotoService) Search(ctx context.Context, ownerID string, from, to time.Time) ([]domain.Photo, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end of range is before its start", domain.ErrInvalidInput)
	}
	return s.photos.ListBetween(ctx, s.scope(ownerID), from, to)
}

// Stats summarizes the photos visible to ownerID.
func (s *PhotoService) Stats(ctx context.Context, ownerID string) (*domain.PhotoStats, error) {
	return s.photos.Stats(ctx, s.scope(ownerID))
}

type exportedPhoto struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	Path       string    `json:"path"`
	OwnerID    string    `json:"owner_id,omitempty"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Export writes the metadata of the photos visible to ownerID as indented
// JSON.
func (s *PhotoService) Export(ctx context.Context, ownerID string, w io.Writer) error {
	photos, err := s.ListVisible(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("list photos: %w", err)
	}

	out := make([]exportedPhoto, 0, len(photos))
	for _, p := range photos {
		out = append(out, exportedPhoto(p))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Prune deletes every photo uploaded more than olderThan ago, regardless of
// owner. It returns how many records were deleted, including those whose
// file could not be removed.
func (s *PhotoService) Prune(ctx context.Context, olderThan time.Duration) (int, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("%w: prune age must be positive", domain.ErrInvalidInput)
	}

	cutoff := s.now().UTC().Add(-olderThan)
	old, err := s.photos.ListUploadedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list old photos: %w", err)
	}

	deleted, strayFiles := 0, 0
	for _, p := range old {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		err := s.delete(ctx, "", p.ID, false)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrFileDeletion):
			strayFiles++
		default:
			slog.Warn("prune photo", "photo_id", p.ID, "error", err)
			continue
		}
		deleted++
	}
	slog.Info("prune complete", "cutoff", cutoff, "candidates", len(old), "deleted", deleted, "stray_files", strayFiles)
	return deleted, nil
}
