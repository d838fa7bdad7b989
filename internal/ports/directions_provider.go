package ports

import (
	"context"
	"friend-locator-service/internal/domain"
)

// Contract for retrieving a travel path between two coordinates.
type DirectionsProvider interface {
	// Return the path from origin to destination; an empty path means no route exists.
	GetPath(ctx context.Context, origin, destination domain.Coordinates) (domain.Path, error)
}
