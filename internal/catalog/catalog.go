// Package catalog orchestrates author and book creation over the stores,
// including the composite "author plus dependent books" workflow and its
// partial-failure semantics.
package catalog

import (
	"context"
	"database/sql"
)

// Publisher is the slice of the event broadcaster the services need.
// Injected rather than reached globally so tests can hand in a recorder.
type Publisher interface {
	AuthorCreated(author any)
	BookCreated(book any, authorID string)
}

// BookCreator is the capability the author-side orchestrator consumes to
// create dependent books. It breaks the Author->Book->Author dependency
// cycle: AuthorService never references BookService directly.
type BookCreator interface {
	CreateForAuthor(ctx context.Context, authorID string, in NestedBookInput) (BookView, error)
}

// AuthorExistenceChecker is the capability the book-side validator
// consumes. A malformed id reports false, never an error.
type AuthorExistenceChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Catalog wires the two services together at composition time.
type Catalog struct {
	Authors *AuthorService
	Books   *BookService
}

// New builds the author and book services and cross-wires them through
// the narrow capability interfaces.
func New(db *sql.DB, events Publisher) *Catalog {
	a := &AuthorService{db: db, events: events}
	b := &BookService{db: db, authors: a, events: events}
	a.books = b
	return &Catalog{Authors: a, Books: b}
}

// nopPublisher backs New when no broadcaster is attached (tests, batch
// tooling).
type nopPublisher struct{}

func (nopPublisher) AuthorCreated(any)       {}
func (nopPublisher) BookCreated(any, string) {}

// NopPublisher returns a Publisher that discards everything.
func NopPublisher() Publisher { return nopPublisher{} }
