package apperrors

import (
	"errors"
	"net/http"
)

// Sentinel errors for the API error taxonomy. Services wrap these with
// fmt.Errorf("...: %w", Err...) so handlers can map any error chain to an
// HTTP status with errors.Is.
var (
	// ErrInvalidArgument indicates malformed or missing input, including bad identifiers.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthenticated indicates a missing, invalid or expired access token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates the authenticated user does not own the entity.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indicates the entity is absent or not visible to the requester.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEntry indicates a uniqueness violation, e.g. username taken.
	ErrDuplicateEntry = errors.New("duplicate entry")
	// ErrOperationFailed indicates an aborted transaction or upstream failure.
	ErrOperationFailed = errors.New("operation failed")
)

// HTTPStatus maps an error chain to its response status code.
// Unrecognized errors map to 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateEntry):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
