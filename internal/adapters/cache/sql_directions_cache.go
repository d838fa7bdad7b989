package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"friend-locator-service/internal/platform/obs"
	"strings"
	"time"
)

// SQLDirectionsCache is a Postgres-backed cache for raw directions responses.
// Entries older than TTL are reported as misses and overwritten on the next Put.
type SQLDirectionsCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLDirectionsCache(db *sql.DB, ttl time.Duration) *SQLDirectionsCache {
	return &SQLDirectionsCache{DB: db, TTL: ttl}
}

// Fetch the cached response body for one origin/destination pair.
func (s *SQLDirectionsCache) Get(
	ctx context.Context,
	origin string,
	destination string,
) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, "directions.cache.sql.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("directions cache: db is nil")
	}

	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return nil, false, errors.New("get directions cache: origin and destination must not be empty")
	}

	q := `
	SELECT body
    FROM directions_cache
    WHERE origin = $1
        AND destination = $2
        AND fetched_at >= $3;
	`

	var body []byte
	cutoff := time.Now().Add(-s.TTL)
	err = s.DB.QueryRowContext(ctx, q, origin, destination, cutoff).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get directions cache: query directions_cache table: %w", err)
	}

	return body, true, nil
}

// Store the response body for one origin/destination pair.
func (s *SQLDirectionsCache) Put(
	ctx context.Context,
	origin string,
	destination string,
	body []byte,
) error {
	if s.DB == nil {
		return errors.New("directions cache: db is nil")
	}

	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return errors.New("insert directions cache: origin and destination must not be empty")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO directions_cache (origin, destination, body, fetched_at)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (origin, destination) DO UPDATE
	SET body = EXCLUDED.body,
		fetched_at = EXCLUDED.fetched_at;
	`, origin, destination, body, time.Now())
	if err != nil {
		return fmt.Errorf("insert directions cache %q -> %q: %w", origin, destination, err)
	}

	return nil
}
