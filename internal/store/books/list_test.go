package books_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/shelfline/library-api/internal/store/books"
)

var bookCols = []string{
	"id", "title", "isbn", "author_id", "published_date", "genre",
	"description", "pages", "language", "publisher", "cover_url",
	"price", "available", "created_at", "updated_at",
}

func TestList_FiltersAndWindow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	now := time.Now().UTC()
	avail := true

	// count then page, same filter, page 3 of limit 10 -> offset 20
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM books b`)).
		WithArgs("%solitude%", "a-1", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery(`(?s)SELECT .+ FROM books b.+ORDER BY b\.title ASC.+LIMIT \$4 OFFSET \$5`).
		WithArgs("%solitude%", "a-1", true, 10, 20).
		WillReturnRows(sqlmock.NewRows(bookCols).AddRow(
			"b-1", "One Hundred Years of Solitude", "9780060883287", "a-1",
			nil, "Magical Realism", nil, nil, "English", nil, nil, nil, true, now, now))

	got, total, err := books.List(t.Context(), db, books.ListFilters{
		Search:    "Solitude",
		AuthorID:  "a-1",
		Available: &avail,
		SortBy:    "title",
		SortOrder: "asc",
		Page:      3,
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if total != 42 || len(got) != 1 {
		t.Fatalf("total=%d len=%d", total, len(got))
	}
	if got[0].Genre != "Magical Realism" {
		t.Fatalf("bad scan: %+v", got[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

// An accented search term is folded to its base letters before it
// reaches SQL, and the query folds the columns the same way, so the
// comparison is symmetric: "García" must match a stored "García" and a
// stored "Garcia" alike.
func TestList_AccentedSearchFoldsBothSides(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\) FROM books b.+lower\(unaccent\(b\.title\)\) LIKE`).
		WithArgs("%cronica%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`(?s)SELECT .+lower\(unaccent\(b\.title\)\) LIKE .+LIMIT`).
		WithArgs("%cronica%", 10, 0).
		WillReturnRows(sqlmock.NewRows(bookCols))

	_, _, err = books.List(t.Context(), db, books.ListFilters{
		Search: "Crónica",
		Page:   1,
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestList_UnknownSortFallsBackToCreatedAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM books b`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`(?s)SELECT .+ ORDER BY b\.created_at DESC`).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows(bookCols))

	_, _, err = books.List(t.Context(), db, books.ListFilters{
		SortBy: "id; DROP TABLE books", // never reaches ORDER BY raw
		Page:   1,
		Limit:  20,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
