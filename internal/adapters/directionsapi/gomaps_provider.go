package directionsapi

import (
	"context"
	"errors"
	"fmt"
	"friend-locator-service/internal/directions"
	"friend-locator-service/internal/domain"
	"friend-locator-service/internal/platform/metrics"
	"friend-locator-service/internal/platform/obs"
	"friend-locator-service/internal/ports"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultBaseURL = "https://maps.gomaps.pro/maps/api"

// GoMapsProvider implements DirectionsProvider over a Google-compatible
// directions HTTP API.
//
// It coordinates:
//   - Response caching keyed by the formatted origin and destination
//   - External API calls with retry/backoff
//   - Path extraction from the response body
//
// The provider is safe for concurrent use.
type GoMapsProvider struct {
	session     *http.Client
	apiKey      string
	baseURL     string
	cache       ports.DirectionsCache
	log         *zap.Logger
	maxAttempts int
	backoff     time.Duration
}

type Option func(*GoMapsProvider)

// WithBaseURL overrides the API base, e.g. for a self-hosted proxy or tests.
func WithBaseURL(baseURL string) Option {
	return func(p *GoMapsProvider) { p.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithHTTPClient(c *http.Client) Option {
	return func(p *GoMapsProvider) { p.session = c }
}

// WithCache enables response caching; a nil cache disables it.
func WithCache(c ports.DirectionsCache) Option {
	return func(p *GoMapsProvider) { p.cache = c }
}

func WithLogger(log *zap.Logger) Option {
	return func(p *GoMapsProvider) { p.log = log }
}

// WithRetry sets the attempt count and initial backoff of the retry loop.
func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(p *GoMapsProvider) {
		if maxAttempts > 0 {
			p.maxAttempts = maxAttempts
		}
		p.backoff = backoff
	}
}

func NewGoMapsProvider(apiKey string, opts ...Option) (*GoMapsProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("directions api key is empty")
	}

	provider := &GoMapsProvider{
		session:     &http.Client{Timeout: 10 * time.Second},
		apiKey:      apiKey,
		baseURL:     DefaultBaseURL,
		log:         zap.NewNop(),
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(provider)
	}

	return provider, nil
}

// GetPath returns the path from origin to destination.
// An empty path means the provider found no route.
func (p *GoMapsProvider) GetPath(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ domain.Path, err error) {
	defer obs.Time(ctx, "directions.GetPath")(&err)

	o, d := origin.String(), destination.String()

	// Check the response cache before issuing external API calls.
	if p.cache != nil {
		body, ok, err := p.cache.Get(ctx, o, d)
		if err != nil {
			p.log.Warn("directions cache read failed", zap.String("origin", o), zap.String("destination", d), zap.Error(err))
		} else if ok {
			path, err := directions.ExtractPath(body)
			if err == nil {
				metrics.DirectionsCacheHits.Inc()
				metrics.PathPoints.Observe(float64(len(path)))
				return path, nil
			}
			p.log.Warn("discarding unreadable cached directions", zap.String("origin", o), zap.String("destination", d), zap.Error(err))
		}
		metrics.DirectionsCacheMisses.Inc()
	}

	body, err := p.fetch(ctx, o, d)
	if err != nil {
		metrics.DirectionsRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("get path %s -> %s: %w", o, d, err)
	}

	path, err := directions.ExtractPath(body)
	if err != nil {
		metrics.DirectionsRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("get path %s -> %s: %w", o, d, err)
	}

	if path.IsEmpty() {
		metrics.DirectionsRequests.WithLabelValues("no_route").Inc()
	} else {
		metrics.DirectionsRequests.WithLabelValues("ok").Inc()
	}
	metrics.PathPoints.Observe(float64(len(path)))

	if p.cache != nil {
		if err := p.cache.Put(ctx, o, d, body); err != nil {
			p.log.Warn("directions cache write failed", zap.String("origin", o), zap.String("destination", d), zap.Error(err))
		}
	}

	return path, nil
}

// fetch calls /directions/json and returns the raw response body.
func (p *GoMapsProvider) fetch(ctx context.Context, origin, destination string) ([]byte, error) {
	endpoint := p.baseURL + "/directions/json"

	q := url.Values{}
	q.Set("origin", origin)
	q.Set("destination", destination)
	q.Set("key", p.apiKey)
	rawQuery := q.Encode()

	body, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := p.newRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		req.URL.RawQuery = rawQuery
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}

	return body, nil
}
