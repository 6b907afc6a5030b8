package extractions

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/beacon/internal/aids"
	"github.com/JaimeStill/beacon/internal/documents"
)

// Domain errors for extraction runs.
var (
	ErrNoDocuments  = errors.New("no documents to extract")
	ErrInvalidLimit = errors.New("invalid document limit")
)

// MapHTTPStatus maps extraction errors, including those surfaced from the
// documents and aids domains, to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, documents.ErrNotFound), errors.Is(err, ErrNoDocuments):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidLimit):
		return http.StatusBadRequest
	case errors.Is(err, aids.ErrInvalidRecord):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
