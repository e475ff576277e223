package apperr

import (
	"errors"
	"net/http"

	"github.com/shelfline/library-api/internal/catalog"
)

// FromCatalog maps the catalog error taxonomy to a Problem so every
// handler reports the same shapes:
//
//	ValidationError   -> 400, field error "invalid"
//	ErrNotFound       -> 404
//	ErrAuthorNotFound -> 404, field error on authorId (a blocked write)
//	ConflictError     -> 409, field error "unique"
//	anything else     -> 500 opaque (unexpected store failure)
func FromCatalog(err error) Problem {
	var verr *catalog.ValidationError
	if errors.As(err, &verr) {
		return Problem{
			Status: http.StatusBadRequest,
			Title:  "Bad Request",
			FieldErrors: []FieldError{
				{Field: verr.Field, Code: "invalid", Message: verr.Message},
			},
		}
	}

	var conflict *catalog.ConflictError
	if errors.As(err, &conflict) {
		return Problem{
			Status: http.StatusConflict,
			Title:  "Conflict",
			FieldErrors: []FieldError{
				{Field: conflict.Field, Code: "unique", Message: "value already exists"},
			},
		}
	}

	if errors.Is(err, catalog.ErrAuthorNotFound) {
		return Problem{
			Status: http.StatusNotFound,
			Title:  "Not Found",
			FieldErrors: []FieldError{
				{Field: "authorId", Code: "not_found", Message: "author does not exist"},
			},
		}
	}

	if errors.Is(err, catalog.ErrNotFound) {
		return Problem{Status: http.StatusNotFound, Title: "Not Found"}
	}

	// Unexpected store failure: opaque, non-retryable, no internals leaked.
	return Problem{Status: http.StatusInternalServerError, Title: "Internal Server Error"}
}

// HandleCatalogError writes the mapped Problem. Returns true if err was
// non-nil and handled.
func HandleCatalogError(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}
	Write(w, r, FromCatalog(err))
	return true
}
