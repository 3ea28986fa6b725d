package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/msomdec/photo-host/internal/domain"
	"github.com/msomdec/photo-host/internal/service"
	"github.com/msomdec/photo-host/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

// GalleryHandler serves the HTML gallery, uploads, deletes, and photo bytes.
type GalleryHandler struct {
	photos       *service.PhotoService
	cookieSecure bool
}

// NewGalleryHandler creates a new GalleryHandler.
func NewGalleryHandler(photos *service.PhotoService, cookieSecure bool) *GalleryHandler {
	return &GalleryHandler{photos: photos, cookieSecure: cookieSecure}
}

// HandleGallery renders the gallery page.
// GET /
func (h *GalleryHandler) HandleGallery(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	photos, err := h.photos.ListVisible(r.Context(), userID(r.Context()))
	if err != nil {
		slog.Error("list photos", "error", err, "request_id", RequestIDFromContext(r.Context()))
		w.WriteHeader(http.StatusInternalServerError)
		view.ErrorPage(user, "Something went wrong", "The gallery could not be loaded.").Render(r.Context(), w)
		return
	}

	cfg := h.photos.Config()
	view.GalleryPage(view.GalleryData{
		User:      user,
		Photos:    photos,
		Flash:     popFlash(w, r, h.cookieSecure),
		CanUpload: user != nil || !cfg.OwnershipEnforced,
		Enforced:  cfg.OwnershipEnforced,
		Accept:    strings.Join(cfg.AllowedExtensions, ","),
	}).Render(r.Context(), w)
}

// HandleUpload stores one or more files from the upload form.
// POST /photos
func (h *GalleryHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	files, err := readUploads(w, r, h.photos.Config().MaxUploadSize)
	if err != nil {
		msg := "Could not read the upload."
		switch {
		case errors.Is(err, errNoFiles):
			msg = "Choose at least one file to upload."
		case isTooLarge(err):
			msg = "The upload is too large."
		default:
			slog.Warn("read upload", "error", err, "request_id", RequestIDFromContext(r.Context()))
		}
		setFlash(w, view.Flash{Errors: []string{msg}}, h.cookieSecure)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	results := h.photos.UploadBatch(r.Context(), userID(r.Context()), files)

	var flash view.Flash
	uploaded := 0
	for _, res := range results {
		if res.Err != nil {
			flash.Errors = append(flash.Errors, fmt.Sprintf("%s: %s", res.FileName, errorMessage(r, "upload photo", res.Err)))
			continue
		}
		uploaded++
	}
	if uploaded > 0 {
		flash.Messages = []string{"Uploaded " + strconv.Itoa(uploaded) + " file(s)"}
	}

	setFlash(w, flash, h.cookieSecure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleDelete deletes a photo. Datastar requests get the refreshed grid over
// SSE; plain form posts are redirected back to the gallery.
// POST /photos/{id}/delete
func (h *GalleryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := userID(ctx)

	err := h.photos.Delete(ctx, viewer, r.PathValue("id"))
	removed := err == nil || errors.Is(err, domain.ErrFileDeletion)
	if err != nil && removed {
		slog.Error("delete photo file", "error", err, "request_id", RequestIDFromContext(ctx))
	}

	if !isDatastarRequest(r) {
		switch {
		case err == nil:
			setFlash(w, view.Flash{Messages: []string{"Photo deleted."}}, h.cookieSecure)
		case removed:
			setFlash(w, view.Flash{Messages: []string{"Photo deleted, but its file could not be removed."}}, h.cookieSecure)
		default:
			setFlash(w, view.Flash{Errors: []string{errorMessage(r, "delete photo", err)}}, h.cookieSecure)
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if !removed {
		http.Error(w, errorMessage(r, "delete photo", err), statusFor(err))
		return
	}

	photos, err := h.photos.ListVisible(ctx, viewer)
	if err != nil {
		slog.Error("list photos after delete", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)
	sse.PatchElementTempl(
		view.PhotoGrid(photos, viewer, h.photos.OwnershipEnforced()),
		datastar.WithSelectorID(view.PhotoGridID),
		datastar.WithModeInner(),
	)
}

// HandleFile serves photo bytes with the content type of the stored file.
// GET /photos/{id}/file
func (h *GalleryHandler) HandleFile(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := h.photos.Open(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		slog.Error("serve photo", "error", err, "request_id", RequestIDFromContext(r.Context()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func isDatastarRequest(r *http.Request) bool {
	return r.Header.Get("Datastar-Request") == "true"
}
