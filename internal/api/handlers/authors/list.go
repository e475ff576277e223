package authors

import (
	"net/http"
	"strings"

	"github.com/shelfline/library-api/internal/api/apperr"
	"github.com/shelfline/library-api/internal/api/httpx"
	"github.com/shelfline/library-api/internal/catalog"
	authorstore "github.com/shelfline/library-api/internal/store/authors"
	"github.com/shelfline/library-api/internal/store/shared"
)

func List(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filters := authorstore.ListFilters{
			Search:  shared.FoldSearch(q.Get("search")),
			Country: strings.TrimSpace(q.Get("country")),
			Page:    parseInt(q.Get("page"), 1),
			Limit:   clamp(parseInt(q.Get("limit"), 10), 1, 100),
		}
		if filters.Page < 1 {
			filters.Page = 1
		}

		views, meta, err := cat.Authors.ListAuthors(r.Context(), filters)
		if apperr.HandleCatalogError(w, r, err) {
			return
		}
		httpx.Page(w, views, meta)
	}
}
