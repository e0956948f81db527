package ports

import (
	"context"

	"github.com/pmppiyas/GSRS-Blood-Server/internal/core/domain"
)

// CreateUserInput is the DTO passed from the transport layer to UserService.
type CreateUserInput struct {
	Name       string
	Email      string
	PhotoURL   string
	Number     string
	Role       string
	BloodGroup string
	Address    string
}

// CreateUserResult is returned by CreateUser.
type CreateUserResult struct {
	// InsertedID is set when a new record was written.
	InsertedID string
	// Existing is set instead when the duplicate policy short-circuited the insert.
	Existing *domain.User
}

// UserService defines the user use cases.
type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*CreateUserResult, error)
	ListUsers(ctx context.Context, query string) ([]*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
