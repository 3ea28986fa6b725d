package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/msomdec/photo-host/internal/service"
)

// PhotoHandler serves the JSON photo API.
type PhotoHandler struct {
	photos *service.PhotoService
}

// NewPhotoHandler creates a new PhotoHandler.
func NewPhotoHandler(photos *service.PhotoService) *PhotoHandler {
	return &PhotoHandler{photos: photos}
}

// HandleList returns the photos visible to the caller.
// GET /api/photos
func (h *PhotoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	photos, err := h.photos.ListVisible(r.Context(), userID(r.Context()))
	if err != nil {
		writeServiceError(w, r, "list photos", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"photos": toPhotoDTOs(photos)})
}

type uploadErrorDTO struct {
	FileName string `json:"fileName"`
	Error    string `json:"error"`
}

// HandleUpload stores the multipart "files" parts.
// POST /api/photos
// Response: 201 {"photos": [...], "errors": [...]} when at least one file
// was stored, otherwise the status of the first failure.
func (h *PhotoHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	files, err := readUploads(w, r, h.photos.Config().MaxUploadSize)
	if err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "Upload is too large.")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results := h.photos.UploadBatch(r.Context(), userID(r.Context()), files)

	photos := []PhotoDTO{}
	failures := []uploadErrorDTO{}
	var firstErr error
	for _, res := range results {
		if res.Err != nil {
			if firstErr == nil {
				firstErr = res.Err
			}
			failures = append(failures, uploadErrorDTO{
				FileName: res.FileName,
				Error:    errorMessage(r, "upload photo", res.Err),
			})
			continue
		}
		photos = append(photos, toPhotoDTO(res.Photo))
	}

	status := http.StatusCreated
	if len(photos) == 0 {
		status = statusFor(firstErr)
	}
	writeJSON(w, status, map[string]any{"photos": photos, "errors": failures})
}

// HandleGet returns one photo's metadata.
// GET /api/photos/{id}
func (h *PhotoHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	photo, err := h.photos.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get photo", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"photo": toPhotoDTO(photo)})
}

// HandleDelete deletes a photo.
// DELETE /api/photos/{id}
func (h *PhotoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.photos.Delete(r.Context(), userID(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete photo", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSearch lists the caller's visible photos uploaded within an RFC 3339
// range.
// GET /api/photos/search?from=...&to=...
func (h *PhotoHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := time.Parse(time.RFC3339, q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "from must be an RFC 3339 timestamp.")
		return
	}
	to, err := time.Parse(time.RFC3339, q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "to must be an RFC 3339 timestamp.")
		return
	}

	photos, err := h.photos.Search(r.Context(), userID(r.Context()), from, to)
	if err != nil {
		writeServiceError(w, r, "search photos", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"photos": toPhotoDTOs(photos)})
}

// HandleStats summarizes the photos visible to the caller.
// GET /api/photos/stats
func (h *PhotoHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.photos.Stats(r.Context(), userID(r.Context()))
	if err != nil {
		writeServiceError(w, r, "photo stats", err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsDTO(stats))
}

// HandleExport downloads the visible photos' metadata as JSON.
// GET /api/photos/export
func (h *PhotoHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.photos.Export(r.Context(), userID(r.Context()), &buf); err != nil {
		writeServiceError(w, r, "export photos", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="photos.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
