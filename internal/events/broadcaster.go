// Package events fans domain events out to connected subscribers.
//
// Delivery is fire-and-forget and at-most-once: each subscriber has its
// own buffered channel, a full buffer drops the event for that subscriber
// only, and nothing is persisted, so a subscriber that connects after a
// publish never sees it.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	TypeAuthorCreated = "AUTHOR_CREATED"
	TypeBookCreated   = "BOOK_CREATED"
)

// Event is the typed payload pushed to subscribers. AuthorID is set only
// for book events so receivers can route the book into the right window
// entry without unpacking Data.
type Event struct {
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	AuthorID  string    `json:"authorId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Broadcaster owns the set of active subscriber channels. It is injected
// into the services that publish; connection handlers manage the
// subscriber lifecycle via Subscribe/Unsubscribe.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[string]chan Event
	buf  int
}

// NewBroadcaster creates a broadcaster whose subscribers each get a
// buffer of size buf.
func NewBroadcaster(buf int) *Broadcaster {
	if buf < 1 {
		buf = 16
	}
	return &Broadcaster{subs: make(map[string]chan Event), buf: buf}
}

// Subscribe registers a new subscriber and returns its id and receive
// channel. The channel is closed by Unsubscribe, never by Publish.
func (b *Broadcaster) Subscribe() (string, <-chan Event) {
	id := uuid.New().String()
	ch := make(chan Event, b.buf)
	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel. Unknown ids
// are a no-op so disconnect paths can call it unconditionally.
func (b *Broadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	ch, ok := b.subs[id]
	if ok {
		delete(b.subs, id)
	}
	b.mu.Unlock()
	if ok {
		close(ch)
	}
}

// Publish delivers ev to every current subscriber. A subscriber whose
// buffer is full has the event dropped; it never blocks delivery to the
// others or the publisher. Publishing with zero subscribers is a no-op.
func (b *Broadcaster) Publish(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// AuthorCreated publishes an author_created event.
func (b *Broadcaster) AuthorCreated(author any) {
	b.Publish(Event{Type: TypeAuthorCreated, Data: author})
}

// BookCreated publishes a book_created event tagged with the owning
// author.
func (b *Broadcaster) BookCreated(book any, authorID string) {
	b.Publish(Event{Type: TypeBookCreated, Data: book, AuthorID: authorID})
}

// SubscriberCount reports the number of connected subscribers.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
