package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/photo-host/internal/domain"
)

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// writeError sends a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// readJSON decodes the request body into the given destination.
func readJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// statusFor maps a service error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingOwner), errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage is the user-facing text for err. Internal failures are
// logged under action and replaced by a generic message.
func errorMessage(r *http.Request, action string, err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		slog.Error(action, "error", err, "request_id", RequestIDFromContext(r.Context()))
		return "An unexpected error occurred. Please try again."
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "Not found."
	case errors.Is(err, domain.ErrForbidden):
		return "You do not have permission to do that."
	case errors.Is(err, domain.ErrUnauthorized):
		return "Not authenticated."
	case errors.Is(err, domain.ErrDuplicateEmail):
		return "An account with that email already exists."
	}
	return err.Error()
}

// writeServiceError sends err as a JSON error with its mapped status.
func writeServiceError(w http.ResponseWriter, r *http.Request, action string, err error) {
	writeError(w, statusFor(err), errorMessage(r, action, err))
}
