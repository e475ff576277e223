// Command browse renders a live author window in the terminal: it seeds
// one page over REST, subscribes to the websocket feed, and reprints the
// window whenever an event lands.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/shelfline/library-api/internal/client"
)

func main() {
	api := flag.String("api", "http://localhost:3000", "API base URL")
	ws := flag.String("ws", "ws://localhost:3000/library/websocket", "websocket feed URL")
	page := flag.Int("page", 1, "page to watch")
	limit := flag.Int("limit", 10, "page size")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rest := client.NewAPI(*api)
	rec := client.NewReconciler(rest.ListAuthors)

	authors, meta, err := rest.ListAuthors(ctx, *page, *limit)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	rec.Seed(authors, meta)

	stream := client.NewStream(*ws, rec)
	go func() {
		if err := stream.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("stream stopped: %v", err)
		}
	}()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	render(rec)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			render(rec)
		}
	}
}

func render(rec *client.Reconciler) {
	authors, meta, degraded := rec.Snapshot()

	var b strings.Builder
	fmt.Fprintf(&b, "\n== authors page %d/%d (total %d)", meta.Page, meta.TotalPages, meta.Total)
	if degraded {
		b.WriteString("  [stale: feed disconnected]")
	}
	b.WriteString("\n")
	for _, a := range authors {
		fmt.Fprintf(&b, "  %-30s  %d books\n", a.FullName, a.BookCount)
		for _, bk := range a.Books {
			fmt.Fprintf(&b, "      - %s (%s)\n", bk.Title, bk.ISBN)
		}
	}
	fmt.Print(b.String())
}
