package ports

import (
	"context"
	"friend-locator-service/internal/domain"
)

// Source of location-change events.
type LocationSubscriber interface {
	SubscribeLocationUpdates(ctx context.Context, handler func(ctx context.Context, u domain.LocationUpdate) error) error
}

// Sink for routes recomputed after location changes.
type RoutePublisher interface {
	PublishRoute(ctx context.Context, watcherID string, route *domain.FriendRoute) error
}
