package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"friend-locator-service/internal/domain"
	"friend-locator-service/internal/ports"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	LocationSubject    = "friendlocator.location.>"
	routeSubjectPrefix = "friendlocator.route."
)

var (
	_ ports.LocationSubscriber = (*Subscriber)(nil)
	_ ports.RoutePublisher     = (*Publisher)(nil)
)

// Connect dials NATS, retrying in the background until the server is reachable.
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("friend-locator"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return conn, nil
}

// Subscriber delivers location updates published by devices.
type Subscriber struct {
	conn *nats.Conn
	log  *zap.Logger

	mu   sync.Mutex
	subs []*nats.Subscription
}

func NewSubscriber(conn *nats.Conn, log *zap.Logger) *Subscriber {
	if log == nil {
		log = zap.NewNop()
	}
	return &Subscriber{conn: conn, log: log}
}

// SubscribeLocationUpdates registers handler for every location update until
// ctx is done. Payloads that do not decode are logged and dropped.
func (s *Subscriber) SubscribeLocationUpdates(ctx context.Context, handler func(ctx context.Context, u domain.LocationUpdate) error) error {
	if handler == nil {
		return errors.New("subscribe location updates: handler must be non-nil")
	}

	sub, err := s.conn.Subscribe(LocationSubject, func(msg *nats.Msg) {
		s.dispatch(ctx, msg.Subject, msg.Data, handler)
	})
	if err != nil {
		return fmt.Errorf("subscribe location updates: %w", err)
	}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = sub.Unsubscribe()
	}()

	return nil
}

func (s *Subscriber) dispatch(ctx context.Context, subject string, data []byte, handler func(ctx context.Context, u domain.LocationUpdate) error) {
	u, err := decodeLocationUpdate(data)
	if err != nil {
		s.log.Warn("dropping location update", zap.String("subject", subject), zap.Error(err))
		return
	}

	if err := handler(ctx, u); err != nil {
		s.log.Warn("location update handler failed",
			zap.String("subject", subject),
			zap.String("user_id", u.UserID),
			zap.Error(err),
		)
	}
}

func decodeLocationUpdate(data []byte) (domain.LocationUpdate, error) {
	var u domain.LocationUpdate
	if err := json.Unmarshal(data, &u); err != nil {
		return domain.LocationUpdate{}, fmt.Errorf("decode location update: %w", err)
	}
	if u.UserID == "" {
		return domain.LocationUpdate{}, errors.New("decode location update: missing user_id")
	}
	if u.At.IsZero() {
		u.At = time.Now().UTC()
	}
	return u, nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}

// Publisher pushes recomputed routes to the watcher's subject.
type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(conn *nats.Conn) *Publisher {
	return &Publisher{conn: conn}
}

type routeMessage struct {
	WatcherID      string             `json:"watcher_id"`
	FriendID       string             `json:"friend_id"`
	Origin         domain.Coordinates `json:"origin"`
	Destination    domain.Coordinates `json:"destination"`
	Points         [][]float64        `json:"points"`
	DistanceMeters float64            `json:"distance_meters"`
	ComputedAt     time.Time          `json:"computed_at"`
}

func encodeRoute(watcherID string, fr *domain.FriendRoute, at time.Time) ([]byte, error) {
	points := make([][]float64, 0, len(fr.Route.Path))
	for _, c := range fr.Route.Path {
		points = append(points, c.CoordsToList())
	}

	return json.Marshal(routeMessage{
		WatcherID:      watcherID,
		FriendID:       fr.Friend.UserID,
		Origin:         fr.Route.Origin,
		Destination:    fr.Route.Destination,
		Points:         points,
		DistanceMeters: fr.Route.DistanceMeters,
		ComputedAt:     at,
	})
}

func RouteSubject(watcherID string) string {
	return routeSubjectPrefix + watcherID
}

func (p *Publisher) PublishRoute(ctx context.Context, watcherID string, route *domain.FriendRoute) error {
	if watcherID == "" || route == nil {
		return errors.New("publish route: watcher id and route must be set")
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("publish route: %w", err)
	}

	data, err := encodeRoute(watcherID, route, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("publish route: %w", err)
	}

	if err := p.conn.Publish(RouteSubject(watcherID), data); err != nil {
		return fmt.Errorf("publish route: %w", err)
	}
	return nil
}
