package authors

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/shelfline/library-api/internal/store/shared"
)

// List returns one page of authors (newest first) plus the total count
// for the same filter. Count and page are two independent reads, not a
// snapshot; a page fetched during concurrent inserts may show a total
// that disagrees with the exact items returned.
func List(ctx context.Context, db *sql.DB, f ListFilters) ([]Author, int, error) {
	where := []string{}
	args := []any{}
	i := 1

	// The search arg is accent-folded and lowercased in Go; the columns
	// get the same treatment via unaccent() so both sides of the LIKE
	// compare in folded form.
	if s := shared.FoldSearch(f.Search); s != "" {
		pat := "%" + s + "%"
		where = append(where, `(
  lower(unaccent(a.first_name)) LIKE $`+strconv.Itoa(i)+`
  OR lower(unaccent(a.last_name)) LIKE $`+strconv.Itoa(i)+`
  OR lower(unaccent(a.first_name || ' ' || a.last_name)) LIKE $`+strconv.Itoa(i)+`
  OR lower(a.email) LIKE $`+strconv.Itoa(i)+`
)`)
		args = append(args, pat)
		i++
	}
	if f.Country != "" {
		where = append(where, "lower(coalesce(a.country, '')) = $"+strconv.Itoa(i))
		args = append(args, strings.ToLower(strings.TrimSpace(f.Country)))
		i++
	}

	cond := ""
	if len(where) > 0 {
		cond = "WHERE " + strings.Join(where, " AND ") + "\n"
	}

	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM authors a\n"+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := "SELECT" + selectCols + fromJoin + "\n" + cond + groupBy + `
ORDER BY a.created_at DESC
LIMIT $` + strconv.Itoa(i) + " OFFSET $" + strconv.Itoa(i+1)

	rows, err := db.QueryContext(ctx, q, append(args, f.Limit, shared.Offset(f.Page, f.Limit))...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Author
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}
