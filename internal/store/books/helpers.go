package books

import (
	"database/sql"
	"strings"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// scanBook reads the selectCols column list into a Book.
func scanBook(sc rowScanner) (Book, error) {
	var (
		b          Book
		published  sql.NullTime
		genre      sql.NullString
		descr      sql.NullString
		pages      sql.NullInt64
		language   sql.NullString
		publisher  sql.NullString
		coverURL   sql.NullString
		price      sql.NullFloat64
	)
	err := sc.Scan(
		&b.ID, &b.Title, &b.ISBN, &b.AuthorID, &published, &genre,
		&descr, &pages, &language, &publisher, &coverURL,
		&price, &b.Available, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return Book{}, err
	}
	if published.Valid {
		t := published.Time
		b.PublishedDate = &t
	}
	b.Genre = genre.String
	b.Description = descr.String
	if pages.Valid {
		n := int(pages.Int64)
		b.Pages = &n
	}
	b.Language = language.String
	b.Publisher = publisher.String
	b.CoverURL = coverURL.String
	if price.Valid {
		p := price.Float64
		b.Price = &p
	}
	return b, nil
}
