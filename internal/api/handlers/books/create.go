package books

import (
	"encoding/json"
	"net/http"

	"github.com/shelfline/library-api/internal/api/apperr"
	"github.com/shelfline/library-api/internal/api/httpx"
	"github.com/shelfline/library-api/internal/catalog"
)

// Create handles POST /books. The referenced author must exist at
// write time; nothing stops it from being deleted afterwards.
func Create(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var body catalog.BookInput
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&body); err != nil {
			apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", "invalid JSON")
			return
		}

		book, err := cat.Books.CreateBook(r.Context(), body)
		if apperr.HandleCatalogError(w, r, err) {
			return
		}
		httpx.Created(w, book)
	}
}
