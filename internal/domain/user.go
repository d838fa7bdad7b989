package domain

import "time"

// Represents a single entry of the user directory.
// Location and UpdatedAt are nil until the user has reported a position.
type User struct {
	UserID      string
	PhoneNumber string
	Location    *Coordinates
	UpdatedAt   *time.Time
}

func (u *User) HasLocation() bool { return u != nil && u.Location != nil }

// A location-change event for one user.
type LocationUpdate struct {
	UserID   string      `json:"user_id"`
	Location Coordinates `json:"location"`
	At       time.Time   `json:"at"`
}
