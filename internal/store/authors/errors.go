package authors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound       = errors.New("author not found")
	ErrDuplicateEmail = errors.New("duplicate email")
)

// emailUniqueViolation reports whether err is the unique index on
// authors.email firing.
func emailUniqueViolation(err error) bool {
	var pg *pgconn.PgError
	return errors.As(err, &pg) && pg.Code == "23505" && pg.ConstraintName == "authors_email_key"
}
