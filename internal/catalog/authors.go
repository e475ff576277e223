package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shelfline/library-api/internal/store/authors"
	"github.com/shelfline/library-api/internal/store/books"
	"github.com/shelfline/library-api/internal/store/shared"
)

// AuthorService creates, reads and deletes authors, and runs the
// composite author-plus-books workflow.
type AuthorService struct {
	db     *sql.DB
	books  BookCreator
	events Publisher
}

// BookFailure records one nested book input that could not be created
// during a composite call, together with the error that stopped it.
type BookFailure struct {
	Input NestedBookInput
	Err   error
}

// CompositeResult is the outcome of CreateAuthorWithBooks. Author is the
// re-read view with its derived book count; Created and Failures
// partition the nested inputs in order.
type CompositeResult struct {
	Author   AuthorView
	Created  []BookView
	Failures []BookFailure
}

// CreateAuthor normalizes and persists a single author. A duplicate
// email surfaces as ConflictError; any other store failure is wrapped
// opaquely.
func (s *AuthorService) CreateAuthor(ctx context.Context, in AuthorInput) (AuthorView, error) {
	row, err := normalizeAuthor(in)
	if err != nil {
		return AuthorView{}, err
	}

	stored, err := authors.Insert(ctx, s.db, row)
	if err != nil {
		if errors.Is(err, authors.ErrDuplicateEmail) {
			return AuthorView{}, &ConflictError{Field: "email"}
		}
		return AuthorView{}, &StoreError{Op: "create author", Err: err}
	}

	view := authorView(stored, nil)

	// Publish only after the insert is durably acknowledged.
	s.events.AuthorCreated(view)
	return view, nil
}

// CreateAuthorWithBooks is author-atomic, books-best-effort. The author
// is created first and its failure aborts the whole call. Each nested
// book is then attempted in input order through the BookCreator
// capability; one book's failure is recorded and the loop continues.
// Nothing is retried and nothing rolls back. There is no per-item
// timeout: a hung book creation blocks the remaining iterations.
func (s *AuthorService) CreateAuthorWithBooks(ctx context.Context, in AuthorInput, bookInputs []NestedBookInput) (CompositeResult, error) {
	created, err := s.CreateAuthor(ctx, in)
	if err != nil {
		return CompositeResult{}, err
	}

	res := CompositeResult{Author: created}
	for _, bin := range bookInputs {
		view, err := s.books.CreateForAuthor(ctx, created.ID, bin)
		if err != nil {
			res.Failures = append(res.Failures, BookFailure{Input: bin, Err: err})
			continue
		}
		res.Created = append(res.Created, view)
	}

	// Re-read so the returned author carries its derived book count and
	// populated book list.
	full, err := s.GetAuthor(ctx, created.ID)
	if err != nil {
		// The author definitely exists; a failed re-read should not turn a
		// successful composite into an error. Fall back to the insert view.
		full = created
		full.Books = res.Created
		full.BookCount = len(res.Created)
	}
	res.Author = full
	return res, nil
}

// GetAuthor fetches one author with books and derived count.
func (s *AuthorService) GetAuthor(ctx context.Context, id string) (AuthorView, error) {
	if !shared.IsUUID(id) {
		return AuthorView{}, &ValidationError{Field: "id", Message: "invalid id format"}
	}
	a, err := authors.GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, authors.ErrNotFound) {
			return AuthorView{}, ErrNotFound
		}
		return AuthorView{}, &StoreError{Op: "get author", Err: err}
	}
	rows, err := books.ByAuthor(ctx, s.db, id)
	if err != nil {
		return AuthorView{}, &StoreError{Op: "get author", Err: err}
	}
	return authorView(a, rows), nil
}

// ListAuthors returns one page of authors, each populated with its books,
// plus window metadata for the same filter.
func (s *AuthorService) ListAuthors(ctx context.Context, f authors.ListFilters) ([]AuthorView, shared.Meta, error) {
	rows, total, err := authors.List(ctx, s.db, f)
	if err != nil {
		return nil, shared.Meta{}, &StoreError{Op: "list authors", Err: err}
	}

	ids := make([]string, 0, len(rows))
	for _, a := range rows {
		ids = append(ids, a.ID)
	}
	byAuthor, err := books.ForAuthors(ctx, s.db, ids)
	if err != nil {
		return nil, shared.Meta{}, &StoreError{Op: "list authors", Err: err}
	}

	out := make([]AuthorView, 0, len(rows))
	for _, a := range rows {
		out = append(out, authorView(a, byAuthor[a.ID]))
	}
	return out, shared.NewMeta(f.Page, f.Limit, total), nil
}

// DeleteAuthor removes an author. Referencing books are orphaned by
// design.
func (s *AuthorService) DeleteAuthor(ctx context.Context, id string) error {
	if !shared.IsUUID(id) {
		return &ValidationError{Field: "id", Message: "invalid id format"}
	}
	if err := authors.Delete(ctx, s.db, id); err != nil {
		if errors.Is(err, authors.ErrNotFound) {
			return ErrNotFound
		}
		return &StoreError{Op: "delete author", Err: err}
	}
	return nil
}

// Exists is the AuthorExistenceChecker capability consumed by the book
// side. Malformed ids report false rather than erroring.
func (s *AuthorService) Exists(ctx context.Context, id string) (bool, error) {
	return authors.Exists(ctx, s.db, id)
}
