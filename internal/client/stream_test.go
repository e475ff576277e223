package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// A reconnecting stream goes through many consume calls with one
// long-lived context; the per-connection watcher goroutine must exit
// when its connection does, not when the context is cancelled.
func TestConsumeReleasesWatcherOnDisconnect(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		time.AfterFunc(50*time.Millisecond, func() { conn.Close() })
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	s := NewStream(url, NewReconciler(nil))
	ctx := context.Background()

	before := runtime.NumGoroutine()

	for i := 0; i < 5; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		s.consume(ctx, conn) // returns when the server drops the connection
		conn.Close()
	}

	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+2
	}, 2*time.Second, 20*time.Millisecond,
		"watcher goroutines piled up across reconnect cycles")
}
