package directionsapi

import (
	"context"
	"fmt"
	"friend-locator-service/internal/adapters/cache"
	"friend-locator-service/internal/directions"
	"friend-locator-service/internal/domain"
	"friend-locator-service/internal/polyline"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

var (
	origin      = domain.Coordinates{Lat: 38.5, Lng: -120.2}
	destination = domain.Coordinates{Lat: 43.252, Lng: -126.453}
)

const referenceBody = `{"status":"OK","routes":[{"legs":[{"steps":[
	{"polyline":{"points":"_p~iF~ps|U_ulLnnqC_mqNvxq` + "`" + `@"}}
]}]}]}`

type memoryCache struct {
	mu   sync.Mutex
	m    map[string][]byte
	puts int
}

func newMemoryCache() *memoryCache { return &memoryCache{m: map[string][]byte{}} }

func (c *memoryCache) Get(ctx context.Context, origin, destination string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.m[origin+"|"+destination]
	return b, ok, nil
}

func (c *memoryCache) Put(ctx context.Context, origin, destination string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	c.m[origin+"|"+destination] = body
	return nil
}

func newTestProvider(t *testing.T, srv *httptest.Server, opts ...Option) *GoMapsProvider {
	t.Helper()
	opts = append([]Option{WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithRetry(3, time.Millisecond)}, opts...)
	p, err := NewGoMapsProvider("test-key", opts...)
	require.NoError(t, err)
	return p
}

func TestNewGoMapsProviderRequiresKey(t *testing.T) {
	_, err := NewGoMapsProvider(" ")
	require.Error(t, err)
}

func TestGetPathRequestAndExtraction(t *testing.T) {
	seen := make(chan *http.Request, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Clone(context.Background())
		fmt.Fprint(w, referenceBody)
	}))
	defer srv.Close()

	path, err := newTestProvider(t, srv).GetPath(context.Background(), origin, destination)
	require.NoError(t, err)

	r := <-seen
	require.Equal(t, "/directions/json", r.URL.Path)
	require.Equal(t, "38.50000,-120.20000", r.URL.Query().Get("origin"))
	require.Equal(t, "43.25200,-126.45300", r.URL.Query().Get("destination"))
	require.Equal(t, "test-key", r.URL.Query().Get("key"))
	require.Equal(t, "application/json", r.Header.Get("Accept"))
	require.Len(t, path, 3)
	require.InDelta(t, 40.7, path[1].Lat, 1e-9)
	require.InDelta(t, -126.453, path[2].Lng, 1e-9)
}

func TestGetPathRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, referenceBody)
	}))
	defer srv.Close()

	path, err := newTestProvider(t, srv).GetPath(context.Background(), origin, destination)
	require.NoError(t, err)
	require.Len(t, path, 3)
	require.Equal(t, int32(3), calls.Load())
}

func TestGetPathDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestProvider(t, srv).GetPath(context.Background(), origin, destination)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Code 400")
	require.Equal(t, int32(1), calls.Load())
}

func TestGetPathRejectsOversizedResponse(t *testing.T) {
	// valid JSON padded past the body limit
	body := referenceBody + strings.Repeat(" ", maxBodyBytes)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	cache := newMemoryCache()
	_, err := newTestProvider(t, srv, WithCache(cache)).GetPath(context.Background(), origin, destination)
	require.ErrorIs(t, err, ErrResponseTooLarge)
	require.NotErrorIs(t, err, directions.ErrMalformedResponse)
	require.Equal(t, int32(1), calls.Load())
	require.Zero(t, cache.puts)
}

func TestGetPathPropagatesTypedErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{name: "garbage body", body: "<html>oops</html>", want: directions.ErrMalformedResponse},
		{name: "truncated polyline", body: `{"routes":[{"legs":[{"steps":[{"polyline":{"points":"_p~i"}}]}]}]}`, want: polyline.ErrMalformedPolyline},
		{name: "denied", body: `{"status":"REQUEST_DENIED","routes":[]}`, want: directions.ErrProviderStatus},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			mc := newMemoryCache()
			_, err := newTestProvider(t, srv, WithCache(mc)).GetPath(context.Background(), origin, destination)
			require.ErrorIs(t, err, tc.want)
			require.Zero(t, mc.puts, "failed responses must not be cached")
		})
	}
}

func TestGetPathNoRouteIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ZERO_RESULTS","routes":[]}`)
	}))
	defer srv.Close()

	path, err := newTestProvider(t, srv).GetPath(context.Background(), origin, destination)
	require.NoError(t, err)
	require.Empty(t, path)
}

func TestGetPathUsesCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, referenceBody)
	}))
	defer srv.Close()

	mc := newMemoryCache()
	p := newTestProvider(t, srv, WithCache(mc))

	first, err := p.GetPath(context.Background(), origin, destination)
	require.NoError(t, err)
	second, err := p.GetPath(context.Background(), origin, destination)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, int32(1), calls.Load())
	require.Equal(t, 1, mc.puts)
}

func TestGetPathWithRedisCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, referenceBody)
	}))
	defer srv.Close()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	p := newTestProvider(t, srv, WithCache(cache.NewRedisDirectionsCache(client, time.Minute)))

	for i := 0; i < 3; i++ {
		path, err := p.GetPath(context.Background(), origin, destination)
		require.NoError(t, err)
		require.Len(t, path, 3)
	}
	require.Equal(t, int32(1), calls.Load())
	require.True(t, mr.Exists("directions:38.50000,-120.20000|43.25200,-126.45300"))
}

func TestGetPathRespectsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv, WithRetry(4, time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.GetPath(ctx, origin, destination)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
