package router

import (
	"database/sql"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/shelfline/library-api/internal/api/handlers"
	"github.com/shelfline/library-api/internal/api/handlers/authors"
	"github.com/shelfline/library-api/internal/api/handlers/books"
	"github.com/shelfline/library-api/internal/api/handlers/stream"
	"github.com/shelfline/library-api/internal/catalog"
	"github.com/shelfline/library-api/internal/events"
	"github.com/shelfline/library-api/internal/storage/media"
)

// Deps carries everything the routes need. Media may be nil; the
// upload-url routes are only mounted when a bucket is configured.
type Deps struct {
	DB      *sql.DB
	Redis   *redis.Client
	Catalog *catalog.Catalog
	Events  *events.Broadcaster
	Media   *media.Store
}

func Router(d Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", handlers.RootHandler)
	mux.Handle("GET /healthz", handlers.Health(d.DB, d.Redis))

	// Authors
	mux.Handle("POST /authors", authors.Create(d.Catalog))
	mux.Handle("GET /authors", authors.List(d.Catalog))
	mux.Handle("GET /authors/{id}", authors.Get(d.Catalog))
	mux.Handle("DELETE /authors/{id}", authors.Delete(d.Catalog))

	// Books
	mux.Handle("POST /books", books.Create(d.Catalog))
	mux.Handle("GET /books", books.List(d.Catalog))
	mux.Handle("GET /books/isbn/{isbn}", books.GetByISBN(d.Catalog))
	mux.Handle("GET /books/{id}", books.Get(d.Catalog))

	// Live feed
	mux.Handle("GET /library/websocket", stream.Handler(d.Events))

	if d.Media != nil {
		mux.Handle("POST /authors/{id}/photo-upload-url", authors.PhotoUploadURL(d.Catalog, d.Media))
		mux.Handle("POST /books/{id}/cover-upload-url", books.CoverUploadURL(d.Catalog, d.Media))
	}

	return mux
}
