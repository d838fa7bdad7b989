package services

import (
	"context"
	"fmt"
	"friend-locator-service/internal/domain"
	"friend-locator-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentLookups bounds in-flight directions requests per call.
const maxConcurrentLookups = 5

// Compute routes from a user to every friend with a known location.
//
// Lookups run concurrently; results keep the directory's friend order.
// The first failure cancels the remaining lookups.
func RoutesToFriends(
	ctx context.Context,
	dir ports.UserDirectory,
	provider ports.DirectionsProvider,
	userID string,
) ([]*domain.FriendRoute, error) {
	user, err := dir.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("routes to friends: %w", err)
	}
	if !user.HasLocation() {
		return nil, fmt.Errorf("routes to friends: user %q: %w", userID, ErrLocationUnknown)
	}

	friends, err := dir.ListFriends(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("routes to friends: list friends: %w", err)
	}

	out := make([]*domain.FriendRoute, len(friends))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)

	for i, f := range friends {
		if !f.HasLocation() {
			continue
		}

		g.Go(func() error {
			route, err := FindRoute(gctx, provider, *user.Location, *f.Location)
			if err != nil {
				return fmt.Errorf("routes to friends: friend %q: %w", f.UserID, err)
			}
			out[i] = &domain.FriendRoute{Friend: *f, Route: *route}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	routes := make([]*domain.FriendRoute, 0, len(out))
	for _, r := range out {
		if r != nil {
			routes = append(routes, r)
		}
	}

	return routes, nil
}
