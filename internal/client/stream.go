package client

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shelfline/library-api/internal/catalog"
	"github.com/shelfline/library-api/internal/events"
)

const (
	reconnectMin = time.Second
	reconnectMax = 30 * time.Second
)

// wireEvent mirrors events.Event with the payload left raw so it can be
// decoded per type.
type wireEvent struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	AuthorID  string          `json:"authorId"`
	Timestamp time.Time       `json:"timestamp"`
}

// Stream keeps a websocket subscription alive and routes events into a
// Reconciler. Missed events are never replayed, so every reconnect is
// followed by a full re-seed.
type Stream struct {
	url string
	rec *Reconciler
}

func NewStream(wsURL string, rec *Reconciler) *Stream {
	return &Stream{url: wsURL, rec: rec}
}

// Run connects, consumes events until the connection drops, then backs
// off and reconnects. It returns when ctx is cancelled.
func (s *Stream) Run(ctx context.Context) error {
	backoff := reconnectMin
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
		if err != nil {
			log.Printf("[Stream] dial failed: %v (retrying in %v)", err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff *= 2; backoff > reconnectMax {
				backoff = reconnectMax
			}
			continue
		}
		backoff = reconnectMin

		// Events missed while disconnected are gone, so the window is
		// re-seeded before going back to incremental merges.
		if err := s.rec.OnLibraryUpdated(ctx); err != nil {
			log.Printf("[Stream] re-seed failed: %v", err)
		}
		s.rec.MarkLive()

		s.consume(ctx, conn)
		conn.Close()
		s.rec.MarkDegraded()
	}
}

func (s *Stream) consume(ctx context.Context, conn *websocket.Conn) {
	// The watcher must not outlive this connection: a reconnecting
	// stream goes through many consume calls over its lifetime.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var ev wireEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() == nil {
				log.Printf("[Stream] connection lost: %v", err)
			}
			return
		}
		s.dispatch(ev)
	}
}

func (s *Stream) dispatch(ev wireEvent) {
	switch ev.Type {
	case events.TypeAuthorCreated:
		var a catalog.AuthorView
		if err := json.Unmarshal(ev.Data, &a); err != nil {
			log.Printf("[Stream] bad author payload: %v", err)
			return
		}
		s.rec.OnAuthorCreated(a)
	case events.TypeBookCreated:
		var b catalog.BookView
		if err := json.Unmarshal(ev.Data, &b); err != nil {
			log.Printf("[Stream] bad book payload: %v", err)
			return
		}
		s.rec.OnBookCreated(b, ev.AuthorID)
	default:
		// Unknown event types are ignored for forward compatibility.
	}
}
