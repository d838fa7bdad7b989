package directionsapi

import (
	"context"
	"fmt"
	"friend-locator-service/internal/domain"
	"sync"
)

type MockRoute struct {
	From, To domain.Coordinates
	Path     domain.Path
	Err      error
}

// MockDirectionsProvider returns canned paths keyed by "origin|destination".
type MockDirectionsProvider struct {
	mu    sync.Mutex
	m     map[string]MockRoute
	calls int
}

func NewMockDirectionsProvider(routes []MockRoute) *MockDirectionsProvider {
	m := make(map[string]MockRoute, len(routes))
	for _, r := range routes {
		m[r.From.String()+"|"+r.To.String()] = r
	}
	return &MockDirectionsProvider{m: m}
}

func (p *MockDirectionsProvider) GetPath(ctx context.Context, origin, destination domain.Coordinates) (domain.Path, error) {
	p.mu.Lock()
	p.calls++
	r, ok := p.m[origin.String()+"|"+destination.String()]
	p.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("missing route %s -> %s", origin, destination)
	}
	if r.Err != nil {
		return nil, r.Err
	}

	return r.Path, nil
}

// Calls reports how many lookups were made.
func (p *MockDirectionsProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
