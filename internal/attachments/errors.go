package attachments

import (
	"errors"
	"net/http"
)

// Domain errors for attachment operations.
var (
	// ErrNotFound covers both an absent file and one outside the caller's
	// ownership scope; the two are indistinguishable to callers.
	ErrNotFound            = errors.New("file not found")
	ErrApplicationNotFound = errors.New("campaign application not found")
	ErrInvalidFileType     = errors.New("file type not allowed")
	ErrFileTooLarge        = errors.New("file exceeds maximum upload size")
	ErrTooManyFiles        = errors.New("too many files in upload batch")
	ErrInvalidInput        = errors.New("invalid file upload input")
	ErrDuplicate           = errors.New("file already exists")
)

// MapHTTPStatus maps attachment domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrApplicationNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidFileType) || errors.Is(err, ErrTooManyFiles) || errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
