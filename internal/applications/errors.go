package applications

import (
	"errors"
	"net/http"

	"github.com/givehub/givehub/internal/identity"
)

// Domain errors for campaign application operations.
var (
	// ErrNotFound covers both an absent application and one outside the
	// caller's ownership scope; the two are indistinguishable to callers.
	ErrNotFound          = errors.New("campaign application not found")
	ErrDuplicate         = errors.New("campaign application already exists")
	ErrForbidden         = errors.New("must be admin to list campaign applications")
	ErrInvalidInput      = errors.New("invalid campaign application input")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// MapHTTPStatus maps application domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, identity.ErrNoOrganizer) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
