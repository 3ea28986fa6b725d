package handler

import (
	"net/http"
	"time"

	"github.com/msomdec/photo-host/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, photos *service.PhotoService, cookieSecure bool) {
	authHandler := NewAuthHandler(auth, cookieSecure)
	galleryHandler := NewGalleryHandler(photos, cookieSecure)
	photoHandler := NewPhotoHandler(photos)

	optional := func(h http.HandlerFunc) http.Handler { return OptionalAuth(auth, h) }
	page := func(h http.HandlerFunc) http.Handler { return RequireAuthPage(auth, h) }

	mux.HandleFunc("GET /healthz", HandleHealthz)

	// HTML pages.
	mux.Handle("GET /{$}", optional(galleryHandler.HandleGallery))
	mux.Handle("POST /photos", optional(galleryHandler.HandleUpload))
	mux.Handle("POST /photos/{id}/delete", optional(galleryHandler.HandleDelete))
	mux.HandleFunc("GET /photos/{id}/file", galleryHandler.HandleFile)

	mux.Handle("GET /login", optional(authHandler.HandleLoginPage))
	mux.HandleFunc("POST /login", authHandler.HandleLoginForm)
	mux.HandleFunc("GET /register", authHandler.HandleRegisterPage)
	mux.HandleFunc("POST /register", authHandler.HandleRegisterForm)
	mux.HandleFunc("POST /logout", authHandler.HandleLogoutForm)
	mux.Handle("GET /profile", page(authHandler.HandleProfilePage))
	mux.Handle("POST /profile", page(authHandler.HandleProfileForm))

	// JSON API.
	mux.HandleFunc("POST /api/auth/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", authHandler.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", authHandler.HandleLogout)
	mux.Handle("GET /api/auth/me", RequireAuth(auth, http.HandlerFunc(authHandler.HandleMe)))

	mux.Handle("GET /api/photos", optional(photoHandler.HandleList))
	mux.Handle("POST /api/photos", optional(photoHandler.HandleUpload))
	mux.Handle("GET /api/photos/search", optional(photoHandler.HandleSearch))
	mux.Handle("GET /api/photos/stats", optional(photoHandler.HandleStats))
	mux.Handle("GET /api/photos/export", optional(photoHandler.HandleExport))
	mux.Handle("GET /api/photos/{id}", optional(photoHandler.HandleGet))
	mux.Handle("DELETE /api/photos/{id}", optional(photoHandler.HandleDelete))
}

// Wrap applies the server-wide middleware around h. A zero timeout leaves
// request contexts unbounded.
func Wrap(h http.Handler, timeout time.Duration) http.Handler {
	return SecurityHeaders(RequestID(LogRequests(Timeout(timeout, h))))
}
