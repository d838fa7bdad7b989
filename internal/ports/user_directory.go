package ports

import (
	"context"
	"errors"
	"friend-locator-service/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")

// Port: a read-only boundary over the user directory.
type UserDirectory interface {
	// Retrieve a single user; returns ErrUserNotFound for unknown ids.
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	// Retrieve every other user that has reported a location, ordered by user id.
	ListFriends(ctx context.Context, userID string) ([]*domain.User, error)
}
