package books

import (
	"context"
	"database/sql"
)

// Insert persists a book and returns the stored row. The caller has
// already verified the author reference; there is deliberately no FK on
// author_id, so nothing here re-checks it.
func Insert(ctx context.Context, db *sql.DB, row CreateRow) (Book, error) {
	b := Book{
		Title:         row.Title,
		ISBN:          row.ISBN,
		AuthorID:      row.AuthorID,
		PublishedDate: row.PublishedDate,
		Genre:         row.Genre,
		Description:   row.Description,
		Pages:         row.Pages,
		Language:      row.Language,
		Publisher:     row.Publisher,
		CoverURL:      row.CoverURL,
		Price:         row.Price,
		Available:     row.Available,
	}

	err := db.QueryRowContext(ctx, `
INSERT INTO books (title, isbn, author_id, published_date, genre, description,
                   pages, language, publisher, cover_url, price, available)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id::text, created_at, updated_at`,
		row.Title, row.ISBN, row.AuthorID,
		row.PublishedDate, nullIfEmpty(row.Genre), nullIfEmpty(row.Description),
		row.Pages, nullIfEmpty(row.Language), nullIfEmpty(row.Publisher),
		nullIfEmpty(row.CoverURL), row.Price, row.Available,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isbnUniqueViolation(err) {
			return Book{}, ErrDuplicateISBN
		}
		return Book{}, err
	}
	return b, nil
}
