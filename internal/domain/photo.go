package domain

import (
	"context"
	"time"
)

// Photo is the metadata of one uploaded image. The bytes live in a FileStore
// under Path, which is generated by the server and never derived from FileName.
type Photo struct {
	ID         string
	FileName   string // Original upload filename, display only
	Path       string // Storage key, "{uuid}.{ext}"
	OwnerID    string // Empty when uploaded without an account
	Size       int64
	UploadedAt time.Time
}

// PhotoStats summarizes a set of photos.
type PhotoStats struct {
	Count      int
	TotalBytes int64
	Oldest     *time.Time
	Newest     *time.Time
}

// PhotoRepository persists photo metadata. All list methods return photos
// newest first.
type PhotoRepository interface {
	Insert(ctx context.Context, photo *Photo) error
	ListByOwner(ctx context.Context, ownerID string) ([]Photo, error)
	ListAll(ctx context.Context) ([]Photo, error)
	FindByID(ctx context.Context, id string) (*Photo, error)
	DeleteByID(ctx context.Context, id string) error

	// ListBetween returns photos uploaded within [from, to], only ownerID's
	// when it is non-empty.
	ListBetween(ctx context.Context, ownerID string, from, to time.Time) ([]Photo, error)
	// ListUploadedBefore returns photos uploaded strictly before cutoff.
	ListUploadedBefore(ctx context.Context, cutoff time.Time) ([]Photo, error)
	// Stats aggregates all photos, or only ownerID's when it is non-empty.
	Stats(ctx context.Context, ownerID string) (*PhotoStats, error)
}

// FileStore abstracts raw file byte storage. Put generates the key, so two
// uploads can never overwrite each other.
type FileStore interface {
	Put(ctx context.Context, data []byte, ext string) (string, error)
	Get(ctx context.Context, path string) ([]byte, error)
	// Remove deletes the file at path. A missing file is not an error.
	Remove(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}
