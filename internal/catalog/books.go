package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shelfline/library-api/internal/store/authors"
	"github.com/shelfline/library-api/internal/store/books"
	"github.com/shelfline/library-api/internal/store/shared"
)

// BookService creates and reads books. The author reference is validated
// through the AuthorExistenceChecker capability before anything touches
// the books collection.
type BookService struct {
	db      *sql.DB
	authors AuthorExistenceChecker
	events  Publisher
}

// CreateBook validates the author reference, normalizes the input and
// persists it. A missing author returns ErrAuthorNotFound without
// touching the store; a duplicate ISBN surfaces as ConflictError with
// the store's unique index as the sole arbiter under races.
func (s *BookService) CreateBook(ctx context.Context, in BookInput) (BookView, error) {
	ok, err := s.authors.Exists(ctx, in.AuthorID)
	if err != nil {
		return BookView{}, &StoreError{Op: "create book", Err: err}
	}
	if !ok {
		return BookView{}, ErrAuthorNotFound
	}

	row, err := normalizeBook(in, time.Now().UTC())
	if err != nil {
		return BookView{}, err
	}

	stored, err := books.Insert(ctx, s.db, row)
	if err != nil {
		if errors.Is(err, books.ErrDuplicateISBN) {
			return BookView{}, &ConflictError{Field: "isbn"}
		}
		return BookView{}, &StoreError{Op: "create book", Err: err}
	}

	view := bookView(stored, s.authorSummary(ctx, stored.AuthorID))

	// Publish only after the insert is durably acknowledged, never before.
	s.events.BookCreated(view, stored.AuthorID)
	return view, nil
}

// CreateForAuthor is the BookCreator capability: the composite author
// flow injects the just-created author's id into a nested input and runs
// the standard creation path.
func (s *BookService) CreateForAuthor(ctx context.Context, authorID string, in NestedBookInput) (BookView, error) {
	return s.CreateBook(ctx, BookInput{NestedBookInput: in, AuthorID: authorID})
}

// GetBook fetches one book with its embedded author summary.
func (s *BookService) GetBook(ctx context.Context, id string) (BookView, error) {
	if !shared.IsUUID(id) {
		return BookView{}, &ValidationError{Field: "id", Message: "invalid id format"}
	}
	b, err := books.GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			return BookView{}, ErrNotFound
		}
		return BookView{}, &StoreError{Op: "get book", Err: err}
	}
	return bookView(b, s.authorSummary(ctx, b.AuthorID)), nil
}

// GetBookByISBN looks a book up by its normalized uniqueness key.
func (s *BookService) GetBookByISBN(ctx context.Context, isbn string) (BookView, error) {
	b, err := books.GetByISBN(ctx, s.db, isbn)
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			return BookView{}, ErrNotFound
		}
		return BookView{}, &StoreError{Op: "get book by isbn", Err: err}
	}
	return bookView(b, s.authorSummary(ctx, b.AuthorID)), nil
}

// ListBooks returns one filtered, sorted page of books with author
// summaries, plus window metadata for the same filter.
func (s *BookService) ListBooks(ctx context.Context, f books.ListFilters) ([]BookView, shared.Meta, error) {
	if f.AuthorID != "" && !shared.IsUUID(f.AuthorID) {
		return nil, shared.Meta{}, &ValidationError{Field: "authorId", Message: "invalid id format"}
	}
	rows, total, err := books.List(ctx, s.db, f)
	if err != nil {
		return nil, shared.Meta{}, &StoreError{Op: "list books", Err: err}
	}

	ids := make([]string, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, b := range rows {
		if _, ok := seen[b.AuthorID]; ok {
			continue
		}
		seen[b.AuthorID] = struct{}{}
		ids = append(ids, b.AuthorID)
	}
	summaries, err := authors.SummariesForIDs(ctx, s.db, ids)
	if err != nil {
		return nil, shared.Meta{}, &StoreError{Op: "list books", Err: err}
	}

	out := make([]BookView, 0, len(rows))
	for _, b := range rows {
		var sum *AuthorSummary
		if a, ok := summaries[b.AuthorID]; ok {
			sum = summaryFromRow(a)
		}
		out = append(out, bookView(b, sum))
	}
	return out, shared.NewMeta(f.Page, f.Limit, total), nil
}

// authorSummary is best-effort: books may legitimately reference a
// deleted author, in which case the embedded summary is simply absent.
func (s *BookService) authorSummary(ctx context.Context, authorID string) *AuthorSummary {
	a, err := authors.GetByID(ctx, s.db, authorID)
	if err != nil {
		return nil
	}
	return summaryFromRow(a)
}
