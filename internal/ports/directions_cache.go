package ports

import "context"

// Cache of raw directions response bodies keyed by formatted origin and destination.
type DirectionsCache interface {
	// Return the cached body; ok is false on a miss.
	Get(ctx context.Context, origin, destination string) (body []byte, ok bool, err error)
	Put(ctx context.Context, origin, destination string, body []byte) error
}
