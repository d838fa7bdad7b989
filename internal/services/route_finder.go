package services

import (
	"context"
	"errors"
	"fmt"
	"friend-locator-service/internal/domain"
	"friend-locator-service/internal/ports"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// ErrLocationUnknown is returned when a user has not reported a position yet.
var ErrLocationUnknown = errors.New("location unknown")

// Find the route between two coordinates.
//
// The provider's path is kept as returned; distance is the haversine length
// of the path and bounds cover every point. An empty path yields a Route with
// zero distance and zero bounds.
func FindRoute(
	ctx context.Context,
	provider ports.DirectionsProvider,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (*domain.Route, error) {
	if provider == nil {
		return nil, errors.New("find route: provider must be non-nil")
	}

	path, err := provider.GetPath(ctx, origin, destination)
	if err != nil {
		return nil, fmt.Errorf("find route: %w", err)
	}

	route := &domain.Route{
		Origin:      origin,
		Destination: destination,
		Path:        path,
	}
	if path.IsEmpty() {
		return route, nil
	}

	ls := lineString(path)
	route.DistanceMeters = geo.Length(ls)

	b := ls.Bound()
	route.Bounds = domain.Bounds{
		North: b.Top(),
		South: b.Bottom(),
		East:  b.Right(),
		West:  b.Left(),
	}

	return route, nil
}

// lineString converts a path to orb's [lon, lat] point order.
func lineString(path domain.Path) orb.LineString {
	ls := make(orb.LineString, 0, len(path))
	for _, c := range path {
		ls = append(ls, orb.Point{c.Lng, c.Lat})
	}
	return ls
}

// Find the route from a user to one friend, both looked up in the directory.
func RouteToFriend(
	ctx context.Context,
	dir ports.UserDirectory,
	provider ports.DirectionsProvider,
	userID string,
	friendID string,
) (*domain.FriendRoute, error) {
	if userID == "" || friendID == "" {
		return nil, errors.New("route to friend: user and friend ids must be non-empty")
	}

	user, err := dir.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("route to friend: %w", err)
	}
	if !user.HasLocation() {
		return nil, fmt.Errorf("route to friend: user %q: %w", userID, ErrLocationUnknown)
	}

	friend, err := dir.GetUser(ctx, friendID)
	if err != nil {
		return nil, fmt.Errorf("route to friend: %w", err)
	}
	if !friend.HasLocation() {
		return nil, fmt.Errorf("route to friend: friend %q: %w", friendID, ErrLocationUnknown)
	}

	route, err := FindRoute(ctx, provider, *user.Location, *friend.Location)
	if err != nil {
		return nil, fmt.Errorf("route to friend %q: %w", friendID, err)
	}

	return &domain.FriendRoute{Friend: *friend, Route: *route}, nil
}
