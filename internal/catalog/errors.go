package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: the identifier was well-formed but matched nothing.
	ErrNotFound = errors.New("not found")

	// ErrAuthorNotFound: a book's author reference does not resolve.
	// Distinct from ErrNotFound because it blocks a write, not a read.
	ErrAuthorNotFound = errors.New("author does not exist")
)

// ValidationError is a malformed or missing field. It never reaches the
// store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ConflictError is a uniqueness violation arbitrated by the store's
// unique index: Field is "email" or "isbn".
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return "duplicate " + e.Field
}

// StoreError wraps anything unexpected from the persistence layer. It is
// treated as non-retryable and surfaced as an opaque failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: store failure: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
