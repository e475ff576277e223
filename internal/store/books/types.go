package books

import "time"

// Book is the persisted shape of a book row.
type Book struct {
	ID            string
	Title         string
	ISBN          string
	AuthorID      string
	PublishedDate *time.Time
	Genre         string
	Description   string
	Pages         *int
	Language      string
	Publisher     string
	CoverURL      string
	Price         *float64
	Available     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateRow carries normalized fields for an insert. Normalization
// (trimming, ISBN stripping, language/availability defaults) happens in
// the catalog layer before the row reaches the store.
type CreateRow struct {
	Title         string
	ISBN          string
	AuthorID      string
	PublishedDate *time.Time
	Genre         string
	Description   string
	Pages         *int
	Language      string
	Publisher     string
	CoverURL      string
	Price         *float64
	Available     bool
}

// ListFilters selects and orders a page of books.
type ListFilters struct {
	Search    string // folded free text over title/description/genre/publisher
	AuthorID  string
	Genre     string // case-insensitive substring
	Available *bool
	SortBy    string // title | publishedDate | createdAt | updatedAt | price
	SortOrder string // asc | desc
	Page      int
	Limit     int
}

const selectCols = `
  b.id, b.title, b.isbn, b.author_id, b.published_date, b.genre,
  b.description, b.pages, b.language, b.publisher, b.cover_url,
  b.price, b.available, b.created_at, b.updated_at`
