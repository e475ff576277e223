package authors

import (
	"encoding/json"
	"net/http"

	"github.com/shelfline/library-api/internal/api/apperr"
	"github.com/shelfline/library-api/internal/api/httpx"
	"github.com/shelfline/library-api/internal/catalog"
)

// Create handles POST /authors. A payload with nested books is a
// composite create: the author is created first and aborts the whole
// request on failure, then each book is attempted independently and
// rejected ones come back in "failures" next to the 201.
func Create(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var body createRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&body); err != nil {
			apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", "invalid JSON")
			return
		}

		if len(body.Books) == 0 {
			author, err := cat.Authors.CreateAuthor(r.Context(), body.AuthorInput)
			if apperr.HandleCatalogError(w, r, err) {
				return
			}
			httpx.Created(w, author)
			return
		}

		res, err := cat.Authors.CreateAuthorWithBooks(r.Context(), body.AuthorInput, body.Books)
		if apperr.HandleCatalogError(w, r, err) {
			return
		}

		resp := map[string]any{"data": res.Author}
		if fs := failureViews(res.Failures); fs != nil {
			resp["failures"] = fs
		}
		httpx.WriteJSON(w, http.StatusCreated, resp)
	}
}
