package services

import (
	"context"
	"fmt"
	"friend-locator-service/internal/domain"
	"friend-locator-service/internal/ports"
	"sort"
	"sync"
)

type fakeDirectory struct {
	users map[string]*domain.User
	err   error
}

func newFakeDirectory(users ...*domain.User) *fakeDirectory {
	m := make(map[string]*domain.User, len(users))
	for _, u := range users {
		m[u.UserID] = u
	}
	return &fakeDirectory{users: m}
}

func (d *fakeDirectory) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if d.err != nil {
		return nil, d.err
	}
	u, ok := d.users[userID]
	if !ok {
		return nil, fmt.Errorf("get user %q: %w", userID, ports.ErrUserNotFound)
	}
	cp := *u
	return &cp, nil
}

func (d *fakeDirectory) ListFriends(ctx context.Context, userID string) ([]*domain.User, error) {
	if d.err != nil {
		return nil, d.err
	}
	var out []*domain.User
	for id, u := range d.users {
		if id == userID || !u.HasLocation() {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []publishedRoute
	notify    chan struct{}
}

type publishedRoute struct {
	watcherID string
	route     domain.FriendRoute
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{notify: make(chan struct{}, 16)}
}

func (p *fakePublisher) PublishRoute(ctx context.Context, watcherID string, route *domain.FriendRoute) error {
	p.mu.Lock()
	p.published = append(p.published, publishedRoute{watcherID: watcherID, route: *route})
	p.mu.Unlock()

	select {
	case p.notify <- struct{}{}:
	default:
	}
	return nil
}

func (p *fakePublisher) snapshot() []publishedRoute {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedRoute(nil), p.published...)
}

func located(id string, lat, lng float64) *domain.User {
	return &domain.User{UserID: id, Location: &domain.Coordinates{Lat: lat, Lng: lng}}
}
