package events

import (
	"context"
	"encoding/json"
	"errors"
	"friend-locator-service/internal/domain"
	"friend-locator-service/internal/ports"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDecodeLocationUpdate(t *testing.T) {
	u, err := decodeLocationUpdate([]byte(`{"user_id":"u-bob","location":{"lat":40.7,"lng":-120.95},"at":"2026-01-01T08:00:00Z"}`))
	require.NoError(t, err)
	require.Equal(t, "u-bob", u.UserID)
	require.Equal(t, domain.Coordinates{Lat: 40.7, Lng: -120.95}, u.Location)
	require.Equal(t, time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC), u.At)

	u, err = decodeLocationUpdate([]byte(`{"user_id":"u-bob","location":{"lat":1,"lng":2}}`))
	require.NoError(t, err)
	require.False(t, u.At.IsZero())

	_, err = decodeLocationUpdate([]byte(`not json`))
	require.Error(t, err)

	_, err = decodeLocationUpdate([]byte(`{"location":{"lat":1,"lng":2}}`))
	require.Error(t, err)
}

func TestDispatchDropsBadPayloads(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := NewSubscriber(nil, zap.New(core))

	var got []domain.LocationUpdate
	handler := func(ctx context.Context, u domain.LocationUpdate) error {
		got = append(got, u)
		return nil
	}

	s.dispatch(context.Background(), "friendlocator.location.u-bob", []byte(`{`), handler)
	require.Empty(t, got)
	require.Equal(t, 1, logs.FilterMessage("dropping location update").Len())

	s.dispatch(context.Background(), "friendlocator.location.u-bob", []byte(`{"user_id":"u-bob","location":{"lat":1,"lng":2}}`), handler)
	require.Len(t, got, 1)
	require.Equal(t, "u-bob", got[0].UserID)
}

func TestDispatchLogsHandlerErrors(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := NewSubscriber(nil, zap.New(core))

	s.dispatch(context.Background(), "friendlocator.location.u-bob", []byte(`{"user_id":"u-bob"}`),
		func(ctx context.Context, u domain.LocationUpdate) error { return errors.New("boom") })

	entries := logs.FilterMessage("location update handler failed").All()
	require.Len(t, entries, 1)
	require.Equal(t, "u-bob", entries[0].ContextMap()["user_id"])
}

func TestEncodeRoute(t *testing.T) {
	at := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	fr := &domain.FriendRoute{
		Friend: domain.User{UserID: "u-bob"},
		Route: domain.Route{
			Origin:         domain.Coordinates{Lat: 38.5, Lng: -120.2},
			Destination:    domain.Coordinates{Lat: 40.7, Lng: -120.95},
			Path:           domain.Path{{Lat: 38.5, Lng: -120.2}, {Lat: 40.7, Lng: -120.95}},
			DistanceMeters: 252924,
		},
	}

	data, err := encodeRoute("u-alice", fr, at)
	require.NoError(t, err)

	var msg routeMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	require.Equal(t, "u-alice", msg.WatcherID)
	require.Equal(t, "u-bob", msg.FriendID)
	require.Equal(t, [][]float64{{38.5, -120.2}, {40.7, -120.95}}, msg.Points)
	require.Equal(t, at, msg.ComputedAt)

	require.Equal(t, "friendlocator.route.u-alice", RouteSubject("u-alice"))
}

func TestPublishRouteRejectsMissingInput(t *testing.T) {
	p := NewPublisher(nil)
	require.Error(t, p.PublishRoute(context.Background(), "", &domain.FriendRoute{}))
	require.Error(t, p.PublishRoute(context.Background(), "u-alice", nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.PublishRoute(ctx, "u-alice", &domain.FriendRoute{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestAdaptersServeTrackerPorts(t *testing.T) {
	var sub ports.LocationSubscriber = NewSubscriber(nil, nil)
	var pub ports.RoutePublisher = NewPublisher(nil)

	require.Error(t, sub.SubscribeLocationUpdates(context.Background(), nil))
	require.Error(t, pub.PublishRoute(context.Background(), "", &domain.FriendRoute{}))
}
