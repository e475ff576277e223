package authors_test

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shelfline/library-api/internal/store/authors"
)

func TestInsert_MapsEmailUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO authors`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "authors_email_key"})

	_, err = authors.Insert(t.Context(), db, authors.CreateRow{
		FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
	})
	if !errors.Is(err, authors.ErrDuplicateEmail) {
		t.Fatalf("want ErrDuplicateEmail, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestInsert_OtherErrorsPassThrough(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	boom := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO authors`)).WillReturnError(boom)

	_, err = authors.Insert(t.Context(), db, authors.CreateRow{
		FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
	})
	if errors.Is(err, authors.ErrDuplicateEmail) {
		t.Fatal("unrelated errors must not map to ErrDuplicateEmail")
	}
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestExists_MalformedIDSkipsQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	ok, err := authors.Exists(t.Context(), db, "definitely-not-a-uuid")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ok {
		t.Fatal("malformed id must report false")
	}
	// no query may have been issued
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM authors WHERE id = $1`)).
		WithArgs("a-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := authors.Delete(t.Context(), db, "a-1"); !errors.Is(err, authors.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetByID_ScansSocialMedia(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`(?s)SELECT .+ FROM authors a`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "first_name", "last_name", "email", "photo_url", "bio", "country",
			"social_media", "created_at", "updated_at", "book_count",
		}).AddRow("a-1", "Jane", "Doe", "jane@example.com", nil, nil, nil,
			[]byte(`["@jane","https://example.com/jane"]`), now, now, 3))

	a, err := authors.GetByID(t.Context(), db, "a-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(a.SocialMedia) != 2 || a.SocialMedia[0] != "@jane" {
		t.Fatalf("bad social media scan: %+v", a.SocialMedia)
	}
	if a.BookCount != 3 {
		t.Fatalf("book count not derived: %d", a.BookCount)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

// Accented search terms fold to base letters in the arg while the query
// folds the name columns with unaccent(), keeping the LIKE symmetric.
func TestList_AccentedSearchFoldsBothSides(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\) FROM authors a.+lower\(unaccent\(a\.first_name\)\) LIKE`).
		WithArgs("%garcia marquez%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`(?s)SELECT .+lower\(unaccent\(a\.last_name\)\) LIKE .+LIMIT`).
		WithArgs("%garcia marquez%", 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "first_name", "last_name", "email", "photo_url", "bio", "country",
			"social_media", "created_at", "updated_at", "book_count",
		}))

	_, _, err = authors.List(t.Context(), db, authors.ListFilters{
		Search: "García Márquez",
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
