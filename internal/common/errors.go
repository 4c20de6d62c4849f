package common

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authorization required")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("resource conflict")
	// ErrStoreUnavailable covers store failures and anything unclassified.
	ErrStoreUnavailable = errors.New("internal server error")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the client-safe message for err. Wrapped detail is
// only kept for 400/409 responses where it describes the caller's input.
func PublicMessage(err error) string {
	switch HTTPStatusFromError(err) {
	case http.StatusBadRequest, http.StatusConflict:
		return err.Error()
	case http.StatusUnauthorized:
		for _, target := range []error{ErrInvalidCredentials, ErrUnauthenticated, ErrInvalidToken} {
			if errors.Is(err, target) {
				return target.Error()
			}
		}
	case http.StatusForbidden:
		return ErrForbidden.Error()
	case http.StatusNotFound:
		return ErrNotFound.Error()
	}
	return ErrStoreUnavailable.Error()
}
