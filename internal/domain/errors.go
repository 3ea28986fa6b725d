package domain

import (
	"errors"
	"fmt"
)

// Category errors. Every specific error below wraps one of these, so callers
// can match either the exact kind or the broad category with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrStorage      = errors.New("storage failure")
)

// Validation failures. The operation was never attempted.
var (
	ErrEmptyFile            = fmt.Errorf("%w: file is empty", ErrInvalidInput)
	ErrFileTooLarge         = fmt.Errorf("%w: file is too large", ErrInvalidInput)
	ErrFileNameTooLong      = fmt.Errorf("%w: file name is too long", ErrInvalidInput)
	ErrUnsupportedExtension = fmt.Errorf("%w: file extension is not allowed", ErrInvalidInput)
	ErrUnsupportedContent   = fmt.Errorf("%w: file content is not a supported image", ErrInvalidInput)
	ErrMissingOwner         = fmt.Errorf("%w: owner is required", ErrInvalidInput)
)

// File store failures.
var (
	ErrWrite        = fmt.Errorf("%w: write file", ErrStorage)
	ErrDirectory    = fmt.Errorf("%w: create storage directory", ErrStorage)
	ErrFileDeletion = fmt.Errorf("%w: delete file", ErrStorage)
)

var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrUnauthorized   = errors.New("unauthorized")
)
