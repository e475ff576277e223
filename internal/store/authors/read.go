package authors

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/shelfline/library-api/internal/store/shared"
)

const selectCols = `
  a.id, a.first_name, a.last_name, a.email, a.photo_url, a.bio, a.country,
  a.social_media, a.created_at, a.updated_at,
  COUNT(b.id) AS book_count`

const fromJoin = `
FROM authors a
LEFT JOIN books b ON b.author_id = a.id`

const groupBy = `
GROUP BY a.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuthor(sc rowScanner) (Author, error) {
	var (
		a        Author
		photoURL sql.NullString
		bio      sql.NullString
		country  sql.NullString
		social   []byte
	)
	err := sc.Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &photoURL, &bio, &country,
		&social, &a.CreatedAt, &a.UpdatedAt, &a.BookCount,
	)
	if err != nil {
		return Author{}, err
	}
	a.PhotoURL = photoURL.String
	a.Bio = bio.String
	a.Country = country.String
	a.SocialMedia = []string{}
	if len(social) > 0 {
		_ = json.Unmarshal(social, &a.SocialMedia)
	}
	return a, nil
}

// GetByID fetches a single author with the derived book count.
// ErrNotFound for no row.
func GetByID(ctx context.Context, db *sql.DB, id string) (Author, error) {
	row := db.QueryRowContext(ctx,
		`SELECT`+selectCols+fromJoin+` WHERE a.id = $1`+groupBy, id)
	a, err := scanAuthor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Author{}, ErrNotFound
	}
	return a, err
}

// SummariesForIDs fetches name fields for a set of authors in one round
// trip, keyed by id. Ids that match nothing are simply absent: a book may
// reference a deleted author.
func SummariesForIDs(ctx context.Context, db *sql.DB, ids []string) (map[string]Author, error) {
	out := make(map[string]Author, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := db.QueryContext(ctx, `
SELECT id::text, first_name, last_name FROM authors WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName); err != nil {
			return nil, err
		}
		out[a.ID] = a
	}
	return out, rows.Err()
}

// Exists reports whether id resolves to a live author. A malformed id is
// simply "does not exist" so callers can use this as a pure existence
// predicate without a separate format check.
func Exists(ctx context.Context, db *sql.DB, id string) (bool, error) {
	if !shared.IsUUID(id) {
		return false, nil
	}
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM authors WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
