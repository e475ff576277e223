// Package client consumes the library API from the outside: it seeds a
// paginated author window over REST and merges pushed events into it so
// the view stays close to live without refetching on every change.
package client

import (
	"context"
	"sync"

	"github.com/shelfline/library-api/internal/catalog"
	"github.com/shelfline/library-api/internal/store/shared"
)

// SeedFunc fetches the current page from the API. The reconciler calls
// it on OnLibraryUpdated to throw away incremental state and start over.
type SeedFunc func(ctx context.Context, page, limit int) ([]catalog.AuthorView, shared.Meta, error)

// Reconciler maintains a contiguous page window of authors plus the
// window metadata, and folds pushed events into it.
//
// Incremental merges trade strictness for immediacy: a prepended author
// may violate the window's sort order until the next full seed, and a
// book event for an author outside the window is dropped rather than
// fetched.
type Reconciler struct {
	mu       sync.Mutex
	authors  []catalog.AuthorView
	meta     shared.Meta
	degraded bool

	seed SeedFunc
}

func NewReconciler(seed SeedFunc) *Reconciler {
	return &Reconciler{seed: seed}
}

// Seed replaces the window wholesale. Used for the initial load, an
// explicit refresh, or paging.
func (r *Reconciler) Seed(authors []catalog.AuthorView, meta shared.Meta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authors = append([]catalog.AuthorView(nil), authors...)
	r.meta = meta
}

// OnAuthorCreated prepends the author and bumps the total. The window
// is not re-sorted or re-paged.
func (r *Reconciler) OnAuthorCreated(a catalog.AuthorView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authors = append([]catalog.AuthorView{a}, r.authors...)
	r.meta.Total++
}

// OnBookCreated appends the book to its author's list when that author
// is in the window. An author outside the window means the event is
// dropped silently; the next seed will pick the book up.
func (r *Reconciler) OnBookCreated(b catalog.BookView, authorID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.authors {
		if r.authors[i].ID == authorID {
			r.authors[i].Books = append(r.authors[i].Books, b)
			r.authors[i].BookCount++
			return
		}
	}
}

// OnLibraryUpdated abandons incremental state and re-seeds the current
// page from the API.
func (r *Reconciler) OnLibraryUpdated(ctx context.Context) error {
	r.mu.Lock()
	page, limit := r.meta.Page, r.meta.Limit
	r.mu.Unlock()
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	authors, meta, err := r.seed(ctx, page, limit)
	if err != nil {
		return err
	}
	r.Seed(authors, meta)
	return nil
}

// MarkDegraded flags the window as potentially stale after a transport
// disconnect. The window itself is kept.
func (r *Reconciler) MarkDegraded() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.degraded = true
}

// MarkLive clears the degraded flag. Callers should force a refresh
// around reconnection since missed events are never replayed.
func (r *Reconciler) MarkLive() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.degraded = false
}

// Snapshot returns a copy of the current window, its metadata, and
// whether the feed is degraded.
func (r *Reconciler) Snapshot() ([]catalog.AuthorView, shared.Meta, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]catalog.AuthorView(nil), r.authors...)
	return out, r.meta, r.degraded
}
