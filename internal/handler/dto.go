package handler

import (
	"time"

	"github.com/msomdec/photo-host/internal/domain"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DisplayName: u.DisplayName(),
		Bio:         u.Bio,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   u.UpdatedAt.Format(time.RFC3339),
	}
}

// PhotoDTO is the JSON representation of a photo.
type PhotoDTO struct {
	ID         string `json:"id"`
	FileName   string `json:"fileName"`
	OwnerID    string `json:"ownerId,omitempty"`
	Size       int64  `json:"size"`
	UploadedAt string `json:"uploadedAt"`
	URL        string `json:"url"`
}

func toPhotoDTO(p *domain.Photo) PhotoDTO {
	return PhotoDTO{
		ID:         p.ID,
		FileName:   p.FileName,
		OwnerID:    p.OwnerID,
		Size:       p.Size,
		UploadedAt: p.UploadedAt.Format(time.RFC3339Nano),
		URL:        "/photos/" + p.ID + "/file",
	}
}

func toPhotoDTOs(photos []domain.Photo) []PhotoDTO {
	out := make([]PhotoDTO, 0, len(photos))
	for i := range photos {
		out = append(out, toPhotoDTO(&photos[i]))
	}
	return out
}

// StatsDTO is the JSON representation of photo statistics.
type StatsDTO struct {
	Count      int     `json:"count"`
	TotalBytes int64   `json:"totalBytes"`
	Oldest     *string `json:"oldest"`
	Newest     *string `json:"newest"`
}

func toStatsDTO(s *domain.PhotoStats) StatsDTO {
	return StatsDTO{
		Count:      s.Count,
		TotalBytes: s.TotalBytes,
		Oldest:     formatOptional(s.Oldest),
		Newest:     formatOptional(s.Newest),
	}
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339Nano)
	return &s
}
