package main

import (
	"context"
	"friend-locator-service/internal/adapters/cache"
	"friend-locator-service/internal/adapters/directionsapi"
	"friend-locator-service/internal/adapters/events"
	"friend-locator-service/internal/adapters/repositories"
	"friend-locator-service/internal/config"
	"friend-locator-service/internal/platform/db"
	"friend-locator-service/internal/platform/logger"
	"friend-locator-service/internal/services"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// The tracker listens for location updates on NATS and publishes fresh
// routes for every configured watcher:friend pair.
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
	pairs, err := cfg.TrackedPairs()
	if err != nil {
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

	provider, err := directionsapi.NewGoMapsProvider(cfg.DirectionsAPIKey,
		directionsapi.WithBaseURL(cfg.DirectionsBaseURL),
		directionsapi.WithHTTPClient(&http.Client{Timeout: cfg.DirectionsTimeout}),
		directionsapi.WithCache(cache.NewSQLDirectionsCache(sqlDB, cfg.CacheTTL)),
		directionsapi.WithLogger(lg.Named("directions")),
	)
	if err != nil {
		lg.Fatal("directions provider", zap.Error(err))
	}

	conn, err := events.Connect(cfg.NATSURL)
	if err != nil {
		lg.Fatal("connect nats", zap.Error(err))
	}

	tracker := services.NewRouteTracker(
		repositories.NewSQLUserDirectory(sqlDB),
		provider,
		events.NewPublisher(conn),
		lg.Named("tracker"),
	)

	for _, p := range pairs {
		if err := tracker.Track(ctx, p[0], p[1]); err != nil {
			lg.Warn("skipping pair", zap.String("watcher_id", p[0]), zap.String("friend_id", p[1]), zap.Error(err))
		}
	}

	sub := events.NewSubscriber(conn, lg.Named("events"))
	if err := sub.SubscribeLocationUpdates(ctx, tracker.HandleUpdate); err != nil {
		lg.Fatal("subscribe", zap.Error(err))
	}

	lg.Info("tracker running", zap.Int("pairs", len(pairs)), zap.String("subject", events.LocationSubject))
	<-ctx.Done()

	// Tracker first: its publishes share the connection being drained.
	lg.Info("shutting down tracker")
	tracker.Close()
	sub.Close()
}
