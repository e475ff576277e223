package authors

import "github.com/shelfline/library-api/internal/catalog"

// createRequest is an author payload with optional nested books. When
// books are present the request becomes a composite create: the author
// part is all-or-nothing, each book succeeds or fails on its own.
type createRequest struct {
	catalog.AuthorInput
	Books []catalog.NestedBookInput `json:"books,omitempty"`
}

// bookFailure is the caller-facing shape of one rejected nested book.
type bookFailure struct {
	Book  catalog.NestedBookInput `json:"book"`
	Error string                  `json:"error"`
}

func failureViews(fs []catalog.BookFailure) []bookFailure {
	if len(fs) == 0 {
		return nil
	}
	out := make([]bookFailure, len(fs))
	for i, f := range fs {
		out[i] = bookFailure{Book: f.Input, Error: f.Err.Error()}
	}
	return out
}
