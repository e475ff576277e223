package books

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shelfline/library-api/internal/api/apperr"
	"github.com/shelfline/library-api/internal/api/httpx"
	"github.com/shelfline/library-api/internal/catalog"
	bookstore "github.com/shelfline/library-api/internal/store/books"
	"github.com/shelfline/library-api/internal/store/shared"
)

func List(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filters := bookstore.ListFilters{
			Search:    shared.FoldSearch(q.Get("search")),
			AuthorID:  strings.TrimSpace(q.Get("authorId")),
			Genre:     strings.TrimSpace(q.Get("genre")),
			SortBy:    strings.TrimSpace(q.Get("sortBy")),
			SortOrder: strings.TrimSpace(q.Get("sortOrder")),
			Page:      parseInt(q.Get("page"), 1),
			Limit:     clamp(parseInt(q.Get("limit"), 10), 1, 100),
		}
		if filters.Page < 1 {
			filters.Page = 1
		}
		if v := q.Get("available"); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				filters.Available = &b
			}
		}

		views, meta, err := cat.Books.ListBooks(r.Context(), filters)
		if apperr.HandleCatalogError(w, r, err) {
			return
		}
		httpx.Page(w, views, meta)
	}
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
