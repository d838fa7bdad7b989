package services

import (
	"context"
	"errors"
	"fmt"
	"friend-locator-service/internal/domain"
	"friend-locator-service/internal/platform/metrics"
	"friend-locator-service/internal/ports"
	"sync"
	"time"

	"go.uber.org/zap"
)

type trackedPair struct {
	watcher string
	friend  string
}

// RouteTracker keeps routes between tracked user pairs current as location
// updates arrive. A newer computation for a pair supersedes an in-flight one:
// the stale lookup is cancelled and only the newest route is published.
//
// It is safe for concurrent use.
type RouteTracker struct {
	dir       ports.UserDirectory
	provider  ports.DirectionsProvider
	publisher ports.RoutePublisher
	log       *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// pubMu serializes the staleness check with publishing.
	pubMu sync.Mutex

	mu        sync.Mutex
	closed    bool
	users     map[string]domain.User
	lastAt    map[string]time.Time
	pairs     map[trackedPair]struct{}
	inflight  map[trackedPair]context.CancelFunc
	latestGen map[trackedPair]uint64
	nextGen   uint64
}

func NewRouteTracker(
	dir ports.UserDirectory,
	provider ports.DirectionsProvider,
	publisher ports.RoutePublisher,
	log *zap.Logger,
) *RouteTracker {
	if log == nil {
		log = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &RouteTracker{
		dir:       dir,
		provider:  provider,
		publisher: publisher,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
		users:     make(map[string]domain.User),
		lastAt:    make(map[string]time.Time),
		pairs:     make(map[trackedPair]struct{}),
		inflight:  make(map[trackedPair]context.CancelFunc),
		latestGen: make(map[trackedPair]uint64),
	}
}

// Track registers a watcher/friend pair, seeds both users from the directory
// and computes the first route when both locations are known.
func (t *RouteTracker) Track(ctx context.Context, watcherID, friendID string) error {
	if watcherID == "" || friendID == "" || watcherID == friendID {
		return fmt.Errorf("track: invalid pair %q -> %q", watcherID, friendID)
	}

	watcher, err := t.dir.GetUser(ctx, watcherID)
	if err != nil {
		return fmt.Errorf("track: %w", err)
	}
	friend, err := t.dir.GetUser(ctx, friendID)
	if err != nil {
		return fmt.Errorf("track: %w", err)
	}

	p := trackedPair{watcher: watcherID, friend: friendID}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return errors.New("track: tracker closed")
	}
	for _, u := range []*domain.User{watcher, friend} {
		if _, known := t.users[u.UserID]; !known {
			t.users[u.UserID] = *u
		}
	}
	t.pairs[p] = struct{}{}
	t.mu.Unlock()

	t.refresh(p)
	return nil
}

// HandleUpdate records a location change and recomputes every tracked route
// involving that user. Updates older than the last timestamped one are
// ignored; an update without a timestamp is applied but does not move that mark.
func (t *RouteTracker) HandleUpdate(ctx context.Context, u domain.LocationUpdate) error {
	if u.UserID == "" {
		return errors.New("handle update: user id must be non-empty")
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return errors.New("handle update: tracker closed")
	}

	if last, ok := t.lastAt[u.UserID]; ok && !u.At.IsZero() && u.At.Before(last) {
		t.mu.Unlock()
		t.log.Debug("ignoring out-of-order location update", zap.String("user_id", u.UserID), zap.Time("at", u.At))
		return nil
	}
	if !u.At.IsZero() {
		t.lastAt[u.UserID] = u.At
	}

	user := t.users[u.UserID]
	user.UserID = u.UserID
	loc := u.Location
	user.Location = &loc
	if !u.At.IsZero() {
		at := u.At
		user.UpdatedAt = &at
	}
	t.users[u.UserID] = user

	var affected []trackedPair
	for p := range t.pairs {
		if p.watcher == u.UserID || p.friend == u.UserID {
			affected = append(affected, p)
		}
	}
	t.mu.Unlock()

	for _, p := range affected {
		t.refresh(p)
	}
	return nil
}

// refresh starts a route computation for p, cancelling any in-flight one.
func (t *RouteTracker) refresh(p trackedPair) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}

	watcher, friend := t.users[p.watcher], t.users[p.friend]
	if !watcher.HasLocation() || !friend.HasLocation() {
		t.mu.Unlock()
		return
	}

	if cancel, ok := t.inflight[p]; ok {
		cancel()
	}

	ctx, cancel := context.WithCancel(t.ctx)
	t.nextGen++
	gen := t.nextGen
	t.inflight[p] = cancel
	t.latestGen[p] = gen
	origin, destination := *watcher.Location, *friend.Location

	t.wg.Add(1)
	t.mu.Unlock()

	go func() {
		defer t.wg.Done()
		defer cancel()

		route, err := FindRoute(ctx, t.provider, origin, destination)

		t.mu.Lock()
		if t.latestGen[p] == gen {
			delete(t.inflight, p)
		}
		t.mu.Unlock()

		if err != nil {
			if ctx.Err() == nil {
				t.log.Warn("route refresh failed",
					zap.String("watcher_id", p.watcher),
					zap.String("friend_id", p.friend),
					zap.Error(err),
				)
			}
			return
		}

		t.publish(p, gen, &domain.FriendRoute{Friend: friend, Route: *route})
	}()
}

func (t *RouteTracker) publish(p trackedPair, gen uint64, fr *domain.FriendRoute) {
	t.pubMu.Lock()
	defer t.pubMu.Unlock()

	t.mu.Lock()
	stale := t.latestGen[p] != gen
	t.mu.Unlock()
	if stale {
		return
	}

	if err := t.publisher.PublishRoute(t.ctx, p.watcher, fr); err != nil {
		t.log.Warn("publish route failed",
			zap.String("watcher_id", p.watcher),
			zap.String("friend_id", p.friend),
			zap.Error(err),
		)
		return
	}
	metrics.RoutesPublished.Inc()
}

// Close cancels in-flight computations and waits for them to finish.
func (t *RouteTracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.mu.Unlock()

	t.cancel()
	t.wg.Wait()
}
