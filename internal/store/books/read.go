package books

import (
	"context"
	"database/sql"
	"errors"
)

// GetByID fetches a single book. ErrNotFound for no row.
func GetByID(ctx context.Context, db *sql.DB, id string) (Book, error) {
	row := db.QueryRowContext(ctx, `SELECT`+selectCols+` FROM books b WHERE b.id = $1`, id)
	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Book{}, ErrNotFound
	}
	return b, err
}

// GetByISBN fetches by the normalized uniqueness key.
func GetByISBN(ctx context.Context, db *sql.DB, isbn string) (Book, error) {
	row := db.QueryRowContext(ctx, `SELECT`+selectCols+` FROM books b WHERE b.isbn = $1`, NormalizeISBN(isbn))
	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Book{}, ErrNotFound
	}
	return b, err
}

// ByAuthor lists an author's books newest first.
func ByAuthor(ctx context.Context, db *sql.DB, authorID string) ([]Book, error) {
	rows, err := db.QueryContext(ctx, `
SELECT`+selectCols+` FROM books b WHERE b.author_id = $1 ORDER BY b.created_at DESC`, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ForAuthors fetches books for a set of authors in one round trip,
// keyed by author id. Used to populate an authors page.
func ForAuthors(ctx context.Context, db *sql.DB, authorIDs []string) (map[string][]Book, error) {
	out := make(map[string][]Book, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}
	rows, err := db.QueryContext(ctx, `
SELECT`+selectCols+` FROM books b WHERE b.author_id = ANY($1::uuid[]) ORDER BY b.created_at DESC`, authorIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out[b.AuthorID] = append(out[b.AuthorID], b)
	}
	return out, rows.Err()
}
