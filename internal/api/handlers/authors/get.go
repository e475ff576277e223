package authors

import (
	"net/http"

	"github.com/shelfline/library-api/internal/api/apperr"
	"github.com/shelfline/library-api/internal/api/httpx"
	"github.com/shelfline/library-api/internal/catalog"
)

func Get(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		author, err := cat.Authors.GetAuthor(r.Context(), r.PathValue("id"))
		if apperr.HandleCatalogError(w, r, err) {
			return
		}
		httpx.OK(w, author)
	}
}
