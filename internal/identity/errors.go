package identity

import (
	"errors"
	"net/http"
)

// Domain errors for identity resolution.
var (
	// ErrNoToken indicates the request carried no bearer token.
	ErrNoToken = errors.New("missing bearer token")
	// ErrInvalidToken indicates the bearer token failed verification.
	ErrInvalidToken = errors.New("invalid bearer token")
	// ErrUnresolved indicates a verified token whose subject maps to no
	// stored person. Surfaced as not-found so callers cannot probe which
	// identities exist.
	ErrUnresolved = errors.New("no person found in database")
	// ErrNoOrganizer indicates a non-admin person without an organizer
	// relation attempted a role-gated operation. Surfaced as not-found,
	// matching the existence-hiding policy.
	ErrNoOrganizer = errors.New("user has no campaigns")
	// ErrNotReady indicates the OIDC provider has not finished initializing.
	ErrNotReady = errors.New("identity resolver not ready")
)

// MapHTTPStatus maps identity errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNoToken) || errors.Is(err, ErrInvalidToken) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrUnresolved) || errors.Is(err, ErrNoOrganizer) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrNotReady) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
