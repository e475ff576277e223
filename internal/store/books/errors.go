package books

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound      = errors.New("book not found")
	ErrDuplicateISBN = errors.New("duplicate isbn")
)

// isbnUniqueViolation reports whether err is the unique index on
// books.isbn firing. The index is the sole arbiter for concurrent
// inserts of the same ISBN: exactly one insert wins, the loser lands
// here.
func isbnUniqueViolation(err error) bool {
	var pg *pgconn.PgError
	return errors.As(err, &pg) && pg.Code == "23505" && pg.ConstraintName == "books_isbn_key"
}
