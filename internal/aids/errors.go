package aids

import (
	"errors"
	"net/http"
)

// Domain errors for record operations.
var (
	ErrNotFound      = errors.New("navigation aid not found")
	ErrDuplicate     = errors.New("navigation aid already exists")
	ErrInvalidRecord = errors.New("invalid navigation aid record")
	ErrInvalidField  = errors.New("field not allowed")
)

// MapHTTPStatus maps record domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidRecord), errors.Is(err, ErrInvalidField):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
