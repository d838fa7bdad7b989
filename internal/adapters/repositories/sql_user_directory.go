package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"friend-locator-service/internal/domain"
	"friend-locator-service/internal/platform/obs"
	"friend-locator-service/internal/ports"
)

// Postgres-backed implementation of the UserDirectory port.
type SQLUserDirectory struct{ DB *sql.DB }

func NewSQLUserDirectory(db *sql.DB) *SQLUserDirectory {
	return &SQLUserDirectory{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u         domain.User
		lat, lng  sql.NullFloat64
		updatedAt sql.NullTime
	)
	if err := row.Scan(&u.UserID, &u.PhoneNumber, &lat, &lng, &updatedAt); err != nil {
		return nil, err
	}

	if lat.Valid && lng.Valid {
		u.Location = &domain.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		u.UpdatedAt = &t
	}

	return &u, nil
}

// Return a single user by id.
func (s *SQLUserDirectory) GetUser(ctx context.Context, userID string) (_ *domain.User, err error) {
	defer obs.Time(ctx, "users.GetUser")(&err)

	if s.DB == nil {
		return nil, errors.New("sql user directory: DB is nil")
	}

	query := `
	SELECT
		user_id,
		phone_number,
		lat,
		lng,
		updated_at
	FROM users
	WHERE user_id = $1;
	`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user %q: %w", userID, ports.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %q: scan row: %w", userID, err)
	}

	return u, nil
}

// Return every other user with a known location, ordered by id.
func (s *SQLUserDirectory) ListFriends(ctx context.Context, userID string) (_ []*domain.User, err error) {
	defer obs.Time(ctx, "users.ListFriends")(&err)

	if s.DB == nil {
		return nil, errors.New("sql user directory: DB is nil")
	}

	query := `
	SELECT
		user_id,
		phone_number,
		lat,
		lng,
		updated_at
	FROM users
	WHERE user_id <> $1
		AND lat IS NOT NULL
		AND lng IS NOT NULL
	ORDER BY user_id;
	`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list friends: query users table: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0, 16)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list friends: scan row: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list friends: row iteration: %w", err)
	}

	return users, nil
}
