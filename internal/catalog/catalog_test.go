package catalog_test

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shelfline/library-api/internal/catalog"
	authorstore "github.com/shelfline/library-api/internal/store/authors"
)

// sliceConverter lets the mock driver accept []string args the way the
// real pgx driver does.
type sliceConverter struct{}

func (sliceConverter) ConvertValue(v any) (driver.Value, error) {
	if _, ok := v.([]string); ok {
		return v, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

type recordedEvent struct {
	kind     string
	authorID string
}

// recorder implements catalog.Publisher and keeps publish order.
type recorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recorder) AuthorCreated(any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{kind: "author_created"})
}

func (r *recorder) BookCreated(_ any, authorID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{kind: "book_created", authorID: authorID})
}

const (
	authorID  = "2b8f0a4e-6f3a-4d2a-9c1e-5f7b8d9e0a1b"
	missingID = "9f8e7d6c-5b4a-3210-fedc-ba9876543210"
)

var (
	authorCols = []string{
		"id", "first_name", "last_name", "email", "photo_url", "bio", "country",
		"social_media", "created_at", "updated_at", "book_count",
	}
	bookInsertCols = []string{"id", "created_at", "updated_at"}
)

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func authorRow(bookCount int) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(authorCols).AddRow(
		authorID, "gabriel", "garcia marquez", "gabo@example.com",
		nil, nil, nil, []byte(`[]`), now, now, bookCount,
	)
}

func newCatalog(t *testing.T) (*catalog.Catalog, sqlmock.Sqlmock, *recorder, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(sliceConverter{}))
	if err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	return catalog.New(db, rec), mock, rec, func() { db.Close() }
}

func TestCreateAuthor_NormalizesAndPublishes(t *testing.T) {
	c, mock, rec, closeDB := newCatalog(t)
	defer closeDB()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO authors`)).
		WithArgs("Gabriel", "García Márquez", "gabo@example.com", nil, nil, "Colombia", []byte(`["@gabo"]`)).
		WillReturnRows(sqlmock.NewRows(bookInsertCols).AddRow(authorID, now, now))

	view, err := c.Authors.CreateAuthor(t.Context(), catalog.AuthorInput{
		FirstName:   "  Gabriel ",
		LastName:    "García Márquez",
		Email:       " GABO@Example.com ",
		Country:     "Colombia",
		SocialMedia: []string{" @gabo ", ""},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if view.ID != authorID || view.FullName != "Gabriel García Márquez" {
		t.Fatalf("bad view: %+v", view)
	}
	if len(rec.events) != 1 || rec.events[0].kind != "author_created" {
		t.Fatalf("want one author_created event, got %+v", rec.events)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateAuthor_DuplicateEmail(t *testing.T) {
	c, mock, rec, closeDB := newCatalog(t)
	defer closeDB()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO authors`)).
		WillReturnError(uniqueViolation("authors_email_key"))

	_, err := c.Authors.CreateAuthor(t.Context(), catalog.AuthorInput{
		FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
	})
	var conflict *catalog.ConflictError
	if !errors.As(err, &conflict) || conflict.Field != "email" {
		t.Fatalf("want email ConflictError, got %v", err)
	}
	if len(rec.events) != 0 {
		t.Fatalf("no event may be published on failure, got %+v", rec.events)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateAuthor_ValidationNeverReachesStore(t *testing.T) {
	c, mock, _, closeDB := newCatalog(t)
	defer closeDB()

	_, err := c.Authors.CreateAuthor(t.Context(), catalog.AuthorInput{
		FirstName: "J", LastName: "Doe", Email: "jane@example.com",
	})
	var verr *catalog.ValidationError
	if !errors.As(err, &verr) || verr.Field != "firstName" {
		t.Fatalf("want firstName ValidationError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateBook_AuthorNotFound(t *testing.T) {
	c, mock, rec, closeDB := newCatalog(t)
	defer closeDB()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM authors WHERE id = $1)`)).
		WithArgs(missingID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := c.Books.CreateBook(t.Context(), catalog.BookInput{
		NestedBookInput: catalog.NestedBookInput{Title: "Orphan", ISBN: "9780060883287"},
		AuthorID:        missingID,
	})
	if !errors.Is(err, catalog.ErrAuthorNotFound) {
		t.Fatalf("want ErrAuthorNotFound, got %v", err)
	}
	if len(rec.events) != 0 {
		t.Fatalf("no event may be published, got %+v", rec.events)
	}
	// No INSERT was expected: the store must not be touched.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateBook_MalformedAuthorIDIsNotFound(t *testing.T) {
	c, mock, _, closeDB := newCatalog(t)
	defer closeDB()

	// A malformed id never reaches the database at all.
	_, err := c.Books.CreateBook(t.Context(), catalog.BookInput{
		NestedBookInput: catalog.NestedBookInput{Title: "Orphan", ISBN: "9780060883287"},
		AuthorID:        "not-an-id",
	})
	if !errors.Is(err, catalog.ErrAuthorNotFound) {
		t.Fatalf("want ErrAuthorNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func expectAuthorExists(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM authors WHERE id = $1)`)).
		WithArgs(authorID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
}

func TestCreateBook_NormalizedISBNAndDefaults(t *testing.T) {
	c, mock, rec, closeDB := newCatalog(t)
	defer closeDB()

	now := time.Now().UTC()
	expectAuthorExists(mock)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO books`)).
		WithArgs("One Hundred Years of Solitude", "9780060883287", authorID,
			nil, nil, nil, nil, "English", nil, nil, nil, true).
		WillReturnRows(sqlmock.NewRows(bookInsertCols).AddRow("b-1", now, now))
	mock.ExpectQuery(`(?s)SELECT .+ FROM authors a`).WillReturnRows(authorRow(1))

	view, err := c.Books.CreateBook(t.Context(), catalog.BookInput{
		NestedBookInput: catalog.NestedBookInput{
			Title: " One Hundred Years of Solitude ",
			ISBN:  "978-0-06-088328-7",
		},
		AuthorID: authorID,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if view.ISBN != "9780060883287" {
		t.Fatalf("isbn not normalized: %q", view.ISBN)
	}
	if view.Language != "English" || !view.Available {
		t.Fatalf("defaults not applied: %+v", view)
	}
	if view.Author == nil || view.Author.FullName == "" {
		t.Fatalf("missing embedded author summary: %+v", view.Author)
	}
	if len(rec.events) != 1 || rec.events[0].kind != "book_created" || rec.events[0].authorID != authorID {
		t.Fatalf("want one book_created event, got %+v", rec.events)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateAuthorWithBooks_PartialFailure(t *testing.T) {
	c, mock, rec, closeDB := newCatalog(t)
	defer closeDB()

	now := time.Now().UTC()

	// author insert succeeds
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO authors`)).
		WillReturnRows(sqlmock.NewRows(bookInsertCols).AddRow(authorID, now, now))

	// book A succeeds
	expectAuthorExists(mock)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO books`)).
		WillReturnRows(sqlmock.NewRows(bookInsertCols).AddRow("b-a", now, now))
	mock.ExpectQuery(`(?s)SELECT .+ FROM authors a`).WillReturnRows(authorRow(1))

	// book B hits the isbn unique index
	expectAuthorExists(mock)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO books`)).
		WillReturnError(uniqueViolation("books_isbn_key"))

	// final re-read: author with derived count, then its books
	mock.ExpectQuery(`(?s)SELECT .+ FROM authors a`).WillReturnRows(authorRow(1))
	mock.ExpectQuery(`(?s)SELECT .+ FROM books b WHERE b\.author_id`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "isbn", "author_id", "published_date", "genre",
			"description", "pages", "language", "publisher", "cover_url",
			"price", "available", "created_at", "updated_at",
		}).AddRow("b-a", "Book A", "9780060883287", authorID, nil, nil,
			nil, nil, "English", nil, nil, nil, true, now, now))

	res, err := c.Authors.CreateAuthorWithBooks(t.Context(),
		catalog.AuthorInput{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"},
		[]catalog.NestedBookInput{
			{Title: "Book A", ISBN: "9780060883287"},
			{Title: "Book B", ISBN: "978-0-06-088328-7"}, // same key after normalization
		})
	if err != nil {
		t.Fatalf("composite must not fail when only a book fails: %v", err)
	}
	if len(res.Created) != 1 || res.Created[0].Title != "Book A" {
		t.Fatalf("want exactly book A created, got %+v", res.Created)
	}
	if len(res.Failures) != 1 {
		t.Fatalf("want exactly one failure, got %+v", res.Failures)
	}
	var conflict *catalog.ConflictError
	if !errors.As(res.Failures[0].Err, &conflict) || conflict.Field != "isbn" {
		t.Fatalf("failure must be an isbn conflict, got %v", res.Failures[0].Err)
	}
	if res.Failures[0].Input.Title != "Book B" {
		t.Fatalf("failure must carry the offending input, got %+v", res.Failures[0].Input)
	}
	if res.Author.BookCount != 1 || len(res.Author.Books) != 1 {
		t.Fatalf("re-read author must show one book, got count=%d books=%d",
			res.Author.BookCount, len(res.Author.Books))
	}
	// one author event then one book event, in publish order
	if len(rec.events) != 2 || rec.events[0].kind != "author_created" || rec.events[1].kind != "book_created" {
		t.Fatalf("unexpected events %+v", rec.events)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateAuthorWithBooks_AuthorFailureAborts(t *testing.T) {
	c, mock, rec, closeDB := newCatalog(t)
	defer closeDB()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO authors`)).
		WillReturnError(uniqueViolation("authors_email_key"))

	_, err := c.Authors.CreateAuthorWithBooks(t.Context(),
		catalog.AuthorInput{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"},
		[]catalog.NestedBookInput{{Title: "Never Created", ISBN: "9780060883287"}})
	var conflict *catalog.ConflictError
	if !errors.As(err, &conflict) || conflict.Field != "email" {
		t.Fatalf("author failure must propagate unchanged, got %v", err)
	}
	if len(rec.events) != 0 {
		t.Fatalf("nothing may be published, got %+v", rec.events)
	}
	// No book queries were expected: the loop must never start.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetAuthor_NotFoundVsInvalid(t *testing.T) {
	c, mock, _, closeDB := newCatalog(t)
	defer closeDB()

	var verr *catalog.ValidationError
	if _, err := c.Authors.GetAuthor(t.Context(), "nope"); !errors.As(err, &verr) {
		t.Fatalf("malformed id must be a ValidationError, got %v", err)
	}

	mock.ExpectQuery(`(?s)SELECT .+ FROM authors a`).
		WillReturnRows(sqlmock.NewRows(authorCols)) // no rows
	if _, err := c.Authors.GetAuthor(t.Context(), missingID); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListAuthors_MetaMatchesFilter(t *testing.T) {
	c, mock, _, closeDB := newCatalog(t)
	defer closeDB()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM authors a`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery(`(?s)SELECT .+ FROM authors a`).
		WillReturnRows(authorRow(0))
	mock.ExpectQuery(`(?s)SELECT .+ FROM books b WHERE b\.author_id = ANY`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "isbn", "author_id", "published_date", "genre",
			"description", "pages", "language", "publisher", "cover_url",
			"price", "available", "created_at", "updated_at",
		}))

	views, meta, err := c.Authors.ListAuthors(t.Context(), authorstore.ListFilters{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("want 1 author, got %d", len(views))
	}
	if meta.Total != 11 || meta.TotalPages != 2 || meta.HasNextPage || !meta.HasPrevPage {
		t.Fatalf("bad meta: %+v", meta)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
