package authors

import (
	"net/http"

	"github.com/shelfline/library-api/internal/api/apperr"
	"github.com/shelfline/library-api/internal/catalog"
)

// Delete removes an author without touching their books. Orphaned books
// keep their author reference and list with a null author summary.
func Delete(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := cat.Authors.DeleteAuthor(r.Context(), r.PathValue("id"))
		if apperr.HandleCatalogError(w, r, err) {
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
