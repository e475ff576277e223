package authors

import (
	"encoding/json"
	"net/http"

	"github.com/shelfline/library-api/internal/api/apperr"
	"github.com/shelfline/library-api/internal/api/httpx"
	"github.com/shelfline/library-api/internal/catalog"
	"github.com/shelfline/library-api/internal/storage/media"
)

// PhotoUploadURL handles POST /authors/{id}/photo-upload-url. The
// client uploads the image bytes to the returned URL itself; the API
// never proxies them.
func PhotoUploadURL(cat *catalog.Catalog, store *media.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var body struct {
			ContentType string `json:"contentType"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", "invalid JSON")
			return
		}
		if !media.AllowedImageType(body.ContentType) {
			apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", "unsupported image type")
			return
		}

		id := r.PathValue("id")
		if _, err := cat.Authors.GetAuthor(r.Context(), id); err != nil {
			apperr.HandleCatalogError(w, r, err)
			return
		}

		up, err := store.PresignAuthorPhoto(r.Context(), id, body.ContentType)
		if err != nil {
			apperr.WriteStatus(w, r, http.StatusInternalServerError, "Internal Server Error", "could not presign upload")
			return
		}
		httpx.OK(w, up)
	}
}
