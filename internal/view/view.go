// Package view holds the templ components for the HTML pages and the
// fragments patched in over SSE.
package view

import (
	"fmt"
	"time"

	"github.com/msomdec/photo-host/internal/domain"
)

// PhotoGridID is the element id the delete handler patches.
const PhotoGridID = "photo-grid"

// Flash is a one-time message shown at the top of a page.
type Flash struct {
	Messages []string
	Errors   []string
}

// GalleryData is everything the gallery page shows.
type GalleryData struct {
	User      *domain.User
	Photos    []domain.Photo
	Flash     Flash
	CanUpload bool
	Enforced  bool
	Accept    string // Value for the file input's accept attribute
}

// RegisterForm holds the values echoed back into the registration form.
type RegisterForm struct {
	Email     string
	FirstName string
	LastName  string
}

func viewerID(u *domain.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}

func canDelete(p domain.Photo, viewerID string, enforced bool) bool {
	return !enforced || (viewerID != "" && p.OwnerID == viewerID)
}

func fileURL(p domain.Photo) string {
	return "/photos/" + p.ID + "/file"
}

func deleteURL(p domain.Photo) string {
	return "/photos/" + p.ID + "/delete"
}

func deleteAction(p domain.Photo) string {
	return fmt.Sprintf("@post('%s')", deleteURL(p))
}

func isoTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
