// Package stream bridges the in-process event broadcaster onto
// websocket connections. Every connected client sees the same feed;
// there is no per-client filtering or replay.
package stream

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shelfline/library-api/internal/events"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     originAllowed,
}

// Handler upgrades GET /library/websocket and pumps broadcast events to
// the client until it disconnects. A client that cannot drain its
// buffer loses events rather than stalling the publisher.
func Handler(b *events.Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[Stream] upgrade failed: %v", err)
			return
		}

		id, ch := b.Subscribe()
		log.Printf("[Stream] client connected id=%s subscribers=%d", id, b.SubscriberCount())

		go writePump(conn, ch)

		// Read loop exists only to notice the peer going away; inbound
		// frames carry no meaning on this feed.
		conn.SetReadLimit(512)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		b.Unsubscribe(id)
		conn.Close()
		log.Printf("[Stream] client disconnected id=%s subscribers=%d", id, b.SubscriberCount())
	}
}

func writePump(conn *websocket.Conn, ch <-chan events.Event) {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true // non-browser client
	}
	allowed := []string{"http://localhost:3000", "https://localhost:3000"}
	if env := os.Getenv("ALLOWED_ORIGINS"); env != "" {
		for _, o := range strings.Split(env, ",") {
			if o = strings.TrimSpace(o); o != "" {
				allowed = append(allowed, o)
			}
		}
	}
	for _, o := range allowed {
		if strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}
