package main

import (
	"context"
	"errors"
	"friend-locator-service/internal/adapters/cache"
	"friend-locator-service/internal/adapters/directionsapi"
	"friend-locator-service/internal/adapters/repositories"
	"friend-locator-service/internal/api"
	"friend-locator-service/internal/config"
	"friend-locator-service/internal/platform/db"
	"friend-locator-service/internal/platform/logger"
	"friend-locator-service/internal/ports"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, directions API) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()
	zap.ReplaceGlobals(lg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		lg.Fatal("open database", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := repositories.InitSchema(ctx, sqlDB); err != nil {
		lg.Fatal("init schema", zap.Error(err))
	}

	// Redis when configured, otherwise the Postgres table.
	var directionsCache ports.DirectionsCache
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			lg.Fatal("connect redis", zap.Error(err))
		}
		defer rdb.Close()
		directionsCache = cache.NewRedisDirectionsCache(rdb, cfg.CacheTTL)
	} else {
		directionsCache = cache.NewSQLDirectionsCache(sqlDB, cfg.CacheTTL)
	}

	provider, err := directionsapi.NewGoMapsProvider(cfg.DirectionsAPIKey,
		directionsapi.WithBaseURL(cfg.DirectionsBaseURL),
		directionsapi.WithHTTPClient(&http.Client{Timeout: cfg.DirectionsTimeout}),
		directionsapi.WithCache(directionsCache),
		directionsapi.WithLogger(lg.Named("directions")),
	)
	if err != nil {
		lg.Fatal("directions provider", zap.Error(err))
	}

	dir := repositories.NewSQLUserDirectory(sqlDB)
	router := api.NewRouter(dir, provider, sqlDB, lg.Named("http"))

	// WriteTimeout covers a full friend fan-out against a cold cache.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		lg.Info("server listening", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			lg.Error("server stopped", zap.Error(err))
			os.Exit(1)
		}
	case <-ctx.Done():
		lg.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			lg.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}
