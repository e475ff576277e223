package books

import (
	"net/http"

	"github.com/shelfline/library-api/internal/api/apperr"
	"github.com/shelfline/library-api/internal/api/httpx"
	"github.com/shelfline/library-api/internal/catalog"
)

func Get(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		book, err := cat.Books.GetBook(r.Context(), r.PathValue("id"))
		if apperr.HandleCatalogError(w, r, err) {
			return
		}
		httpx.OK(w, book)
	}
}

// GetByISBN handles GET /books/isbn/{isbn}. The path value is
// normalized before lookup, so hyphenated and bare forms both match.
func GetByISBN(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		book, err := cat.Books.GetBookByISBN(r.Context(), r.PathValue("isbn"))
		if apperr.HandleCatalogError(w, r, err) {
			return
		}
		httpx.OK(w, book)
	}
}
