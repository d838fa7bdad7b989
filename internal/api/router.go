package api

import (
	"friend-locator-service/internal/api/handlers"
	"friend-locator-service/internal/platform/metrics"
	"friend-locator-service/internal/ports"
	"net/http"

	"go.uber.org/zap"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// db backs the readiness probe and may be nil.
func NewRouter(dir ports.UserDirectory, provider ports.DirectionsProvider, db handlers.Pinger, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}

	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{DB: db}
	routeHandler := &handlers.RouteHandler{
		Dir:      dir,
		Provider: provider,
	}

	mux.HandleFunc("GET /health", healthHandler.Live)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /routes", routeHandler.Route)
	mux.HandleFunc("GET /users/{userID}/friends/{friendID}/route", routeHandler.FriendRoute)
	mux.HandleFunc("GET /users/{userID}/friends/routes", routeHandler.FriendRoutes)
	mux.Handle("GET /metrics", metrics.Handler())

	return requestIDMiddleware(loggingMiddleware(log, mux))
}
