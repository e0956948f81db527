package ports

import (
	"context"

	"github.com/pmppiyas/GSRS-Blood-Server/internal/core/domain"
)

// UserRepository defines persistence operations for user records.
type UserRepository interface {
	// Insert stores u and returns the database-assigned identifier.
	// Returns domain.ErrUserExists when a unique index rejects the email.
	Insert(ctx context.Context, u *domain.User) (string, error)
	// FindByEmail returns domain.ErrUserNotFound when no record matches exactly.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Search returns users whose name or email contains term, ignoring case.
	// An empty term matches every record. Results keep storage order.
	Search(ctx context.Context, term string) ([]*domain.User, error)
}

// UserCache is an optional lookaside cache for email lookups.
type UserCache interface {
	Get(ctx context.Context, email string) (*domain.User, bool)
	Set(ctx context.Context, u *domain.User)
}
