package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pmppiyas/GSRS-Blood-Server/internal/core/domain"
	"github.com/pmppiyas/GSRS-Blood-Server/internal/core/ports"
)

type UserService struct {
	repo   ports.UserRepository
	cache  ports.UserCache
	policy domain.DuplicatePolicy
	logger zerolog.Logger
	now    func() time.Time
}

// NewUserService returns a UserService. A nil cache disables caching; an
// unknown policy falls back to domain.PolicyInsert.
func NewUserService(repo ports.UserRepository, cache ports.UserCache, policy domain.DuplicatePolicy, logger zerolog.Logger) *UserService {
	if !policy.Valid() {
		policy = domain.PolicyInsert
	}
	return &UserService{
		repo:   repo,
		cache:  cache,
		policy: policy,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateUser stores a new user. Under PolicyReturnExisting a record with the
// same email is returned instead, and nothing is written.
func (s *UserService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*ports.CreateUserResult, error) {
	if s.policy == domain.PolicyReturnExisting {
		existing, err := s.repo.FindByEmail(ctx, input.Email)
		switch {
		case err == nil:
			s.logger.Info().Str("email", input.Email).Msg("user already exists")
			return &ports.CreateUserResult{Existing: existing}, nil
		case !errors.Is(err, domain.ErrUserNotFound):
			return nil, fmt.Errorf("create user: %w", err)
		}
	}

	user := &domain.User{
		Name:       input.Name,
		Email:      input.Email,
		PhotoURL:   input.PhotoURL,
		Number:     input.Number,
		Role:       input.Role,
		BloodGroup: input.BloodGroup,
		Address:    input.Address,
		CreatedAt:  s.now(),
	}

	id, err := s.repo.Insert(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) && s.policy == domain.PolicyReturnExisting {
			// Lost the race against a concurrent insert of the same email.
			existing, findErr := s.repo.FindByEmail(ctx, input.Email)
			if findErr == nil {
				return &ports.CreateUserResult{Existing: existing}, nil
			}
		}
		s.logger.Error().Err(err).Str("email", input.Email).Msg("failed to create user")
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Str("id", id).Str("email", input.Email).Msg("user created")
	return &ports.CreateUserResult{InsertedID: id}, nil
}

// ListUsers returns users matching query. An empty result is reported as
// domain.ErrNoUsers.
func (s *UserService) ListUsers(ctx context.Context, query string) ([]*domain.User, error) {
	users, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return nil, domain.ErrNoUsers
	}
	return users, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if s.cache != nil {
		if u, ok := s.cache.Get(ctx, email); ok {
			return u, nil
		}
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, u)
	}
	return u, nil
}
