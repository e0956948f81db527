package domain

import (
	"errors"
	"time"
)

// User is a registered donor or staff member.
type User struct {
	ID         string    `json:"_id,omitempty"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	PhotoURL   string    `json:"photoURL,omitempty"`
	Number     string    `json:"number"`
	Role       string    `json:"role"`
	BloodGroup string    `json:"bloodGroup"`
	Address    string    `json:"address"`
	CreatedAt  time.Time `json:"createdAt"`
}

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrNoUsers             = errors.New("no users found")
	ErrUserExists          = errors.New("user already exists")
	ErrDatabaseUnavailable = errors.New("database unavailable")
	ErrInvalidInput        = errors.New("invalid input")
)
