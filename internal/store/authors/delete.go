package authors

import (
	"context"
	"database/sql"
)

// Delete removes an author. Books referencing the author are left in
// place and become orphans; there is no FK cascade, which is a deliberate
// property of the schema, not an oversight.
func Delete(ctx context.Context, db *sql.DB, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
