package authors

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
)

// Insert persists an author and returns the stored row. Email uniqueness
// is left to the authors_email_key index so two concurrent inserts with
// the same email race there, not in application code.
func Insert(ctx context.Context, db *sql.DB, row CreateRow) (Author, error) {
	social := row.SocialMedia
	if social == nil {
		social = []string{}
	}
	socialJSON, err := json.Marshal(social)
	if err != nil {
		return Author{}, err
	}

	a := Author{
		FirstName:   row.FirstName,
		LastName:    row.LastName,
		Email:       row.Email,
		PhotoURL:    row.PhotoURL,
		Bio:         row.Bio,
		Country:     row.Country,
		SocialMedia: social,
	}

	err = db.QueryRowContext(ctx, `
INSERT INTO authors (first_name, last_name, email, photo_url, bio, country, social_media)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id::text, created_at, updated_at`,
		row.FirstName, row.LastName, row.Email,
		nullIfEmpty(row.PhotoURL), nullIfEmpty(row.Bio), nullIfEmpty(row.Country),
		socialJSON,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if emailUniqueViolation(err) {
			return Author{}, ErrDuplicateEmail
		}
		return Author{}, err
	}
	return a, nil
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
