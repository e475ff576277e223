package books

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/shelfline/library-api/internal/store/shared"
)

// sortColumns whitelists sortable fields; anything else falls back to
// created_at so a query parameter can never reach ORDER BY raw.
var sortColumns = map[string]string{
	"title":         "b.title",
	"publishedDate": "b.published_date",
	"createdAt":     "b.created_at",
	"updatedAt":     "b.updated_at",
	"price":         "b.price",
}

// List returns one page of books plus the total count for the same
// filter. The count and page queries are two independent reads; under
// concurrent inserts total may lag the returned items, which callers
// accept in exchange for not locking the table.
func List(ctx context.Context, db *sql.DB, f ListFilters) ([]Book, int, error) {
	where := []string{}
	args := []any{}
	i := 1

	// Arg folded in Go, columns folded via unaccent(): both sides of the
	// LIKE compare accent-stripped and lowercased.
	if s := shared.FoldSearch(f.Search); s != "" {
		pat := "%" + s + "%"
		where = append(where, `(
  lower(unaccent(b.title)) LIKE $`+strconv.Itoa(i)+`
  OR lower(unaccent(coalesce(b.description, ''))) LIKE $`+strconv.Itoa(i)+`
  OR lower(unaccent(coalesce(b.genre, ''))) LIKE $`+strconv.Itoa(i)+`
  OR lower(unaccent(coalesce(b.publisher, ''))) LIKE $`+strconv.Itoa(i)+`
)`)
		args = append(args, pat)
		i++
	}
	if f.AuthorID != "" {
		where = append(where, "b.author_id = $"+strconv.Itoa(i))
		args = append(args, f.AuthorID)
		i++
	}
	if f.Genre != "" {
		where = append(where, "lower(coalesce(b.genre, '')) LIKE $"+strconv.Itoa(i))
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(f.Genre))+"%")
		i++
	}
	if f.Available != nil {
		where = append(where, "b.available = $"+strconv.Itoa(i))
		args = append(args, *f.Available)
		i++
	}

	cond := ""
	if len(where) > 0 {
		cond = "WHERE " + strings.Join(where, " AND ") + "\n"
	}

	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM books b\n"+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "b.created_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		dir = "ASC"
	}

	// Ties within the sort column fall back to store-native order and are
	// not stable across pages unless a secondary key is added.
	q := "SELECT" + selectCols + " FROM books b\n" + cond +
		"ORDER BY " + col + " " + dir + "\n" +
		"LIMIT $" + strconv.Itoa(i) + " OFFSET $" + strconv.Itoa(i+1)

	rows, err := db.QueryContext(ctx, q, append(args, f.Limit, shared.Offset(f.Page, f.Limit))...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}
