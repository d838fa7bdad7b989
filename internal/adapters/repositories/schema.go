package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Initialize the Postgres schema for the user directory and directions cache.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createUsersQuery := `
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		phone_number TEXT NOT NULL,
		lat DOUBLE PRECISION,
		lng DOUBLE PRECISION,
		updated_at TIMESTAMPTZ
	);
	`

	createDirectionsCacheQuery := `
	CREATE TABLE IF NOT EXISTS directions_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        body BYTEA NOT NULL,
        fetched_at TIMESTAMPTZ NOT NULL,
        PRIMARY KEY (origin, destination)
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_users_phone_number
    ON users(phone_number);
	`

	statements := []string{
		createUsersQuery,
		createDirectionsCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type UserSeed struct {
	UserID      string   `json:"user_id"`
	PhoneNumber string   `json:"phone_number"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

// ParseSeeds validates seed users read from JSON.
// Latitude and longitude must be given together.
func ParseSeeds(data []byte) ([]UserSeed, error) {
	var items []UserSeed
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("seed users: parse json: %w", err)
	}

	rows := make([]UserSeed, 0, len(items))
	for i, item := range items {
		id := strings.TrimSpace(item.UserID)
		if id == "" {
			return nil, fmt.Errorf("seed users: item at index %d: user_id cannot be empty", i+1)
		}

		phone := strings.ReplaceAll(item.PhoneNumber, " ", "")
		if phone == "" {
			return nil, fmt.Errorf("seed users: user_id=%s: phone_number cannot be empty", id)
		}

		if (item.Lat == nil) != (item.Lng == nil) {
			return nil, fmt.Errorf("seed users: user_id=%s: lat and lng must be set together", id)
		}

		rows = append(rows, UserSeed{UserID: id, PhoneNumber: phone, Lat: item.Lat, Lng: item.Lng})
	}

	return rows, nil
}

// Populate the users table from a JSON file.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed users: read %q: %w", jsonPath, err)
	}

	rows, err := ParseSeeds(bytes)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed users: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO users (
		user_id,
		phone_number,
		lat,
		lng,
		updated_at
	)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id) DO UPDATE
	SET phone_number = EXCLUDED.phone_number,
		lat = EXCLUDED.lat,
		lng = EXCLUDED.lng,
		updated_at = EXCLUDED.updated_at;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed users: prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, u := range rows {
		var updatedAt *time.Time
		if u.Lat != nil {
			updatedAt = &now
		}
		if _, err := stmt.ExecContext(ctx, u.UserID, u.PhoneNumber, u.Lat, u.Lng, updatedAt); err != nil {
			return fmt.Errorf("seed users: insert user_id=%s: %w", u.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed users: commit tx: %w", err)
	}

	return nil
}
