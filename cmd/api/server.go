package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	mw "github.com/shelfline/library-api/internal/api/middlewares"
	"github.com/shelfline/library-api/internal/api/router"
	"github.com/shelfline/library-api/internal/catalog"
	"github.com/shelfline/library-api/internal/events"
	"github.com/shelfline/library-api/internal/repository/sqlconnect"
	"github.com/shelfline/library-api/internal/storage/media"
	"github.com/shelfline/library-api/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlconnect.ConnectDB(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb, err := connectRedis(ctx)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	broadcaster := events.NewBroadcaster(64)
	cat := catalog.New(db, broadcaster)

	var mediaStore *media.Store
	if os.Getenv("AWS_BUCKET") != "" {
		mediaStore, err = media.New(ctx)
		if err != nil {
			log.Fatalf("media storage: %v", err)
		}
	} else {
		log.Println("AWS_BUCKET not set, upload-url routes disabled")
	}

	limiter := mw.NewRateLimiter(rdb, 5, 20)

	handler := utils.ApplyMiddleware(
		router.Router(router.Deps{
			DB:      db,
			Redis:   rdb,
			Catalog: cat,
			Events:  broadcaster,
			Media:   mediaStore,
		}),
		mw.RequestID,
		mw.Recovery,
		mw.ResponseTime,
		mw.Cors,
		mw.SecurityHeaders,
		limiter.Middleware,
		mw.Compression,
	)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":3000"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server: %v", err)
	}
}

func connectRedis(ctx context.Context) (*redis.Client, error) {
	var rdb *redis.Client

	if url := os.Getenv("REDIS_URL"); url != "" {
		opt, err := redis.ParseURL(url)
		if err != nil {
			return nil, err
		}
		if opt.TLSConfig != nil {
			opt.TLSConfig.MinVersion = tls.VersionTLS12
		}
		opt.DialTimeout = 5 * time.Second
		rdb = redis.NewClient(opt)
	} else {
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		rdb = redis.NewClient(&redis.Options{
			Addr:        addr,
			Password:    os.Getenv("REDIS_PASSWORD"),
			DialTimeout: 2 * time.Second,
		})
	}

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}
