// Package httpx provides the JSON response envelope shared by all handlers.
package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicateEmail     = errors.New("duplicate email")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("forbidden")
)

// RespondError maps domain errors to the response envelope.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrDuplicateEmail):
		Error(w, http.StatusBadRequest, "User already exists with this email")
	case errors.Is(err, ErrValidation):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrUnauthenticated):
		Error(w, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, ErrForbidden):
		Error(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, ErrNotFound):
		Error(w, http.StatusNotFound, "Resource not found")
	default:
		Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
