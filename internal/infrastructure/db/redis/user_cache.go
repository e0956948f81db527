package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pmppiyas/GSRS-Blood-Server/internal/core/domain"
)

const defaultTTL = 10 * time.Minute

// UserCache caches users by email. Records are never updated or deleted, so
// entries only leave through expiry.
// Key format: user:email:<email>
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewUserCache creates a UserCache wrapping the given Redis client.
func NewUserCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *UserCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &UserCache{client: client, ttl: ttl, log: log}
}

// Get reports a cache hit. Redis errors count as misses.
func (c *UserCache) Get(ctx context.Context, email string) (*domain.User, bool) {
	raw, err := c.client.Get(ctx, key(email)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("email", email).Msg("user cache read failed")
		}
		return nil, false
	}

	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		c.log.Warn().Err(err).Str("email", email).Msg("user cache entry corrupt")
		return nil, false
	}
	return &u, true
}

// Set stores u under its email. Failures are logged and otherwise ignored.
func (c *UserCache) Set(ctx context.Context, u *domain.User) {
	raw, err := json.Marshal(u)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(u.Email), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("email", u.Email).Msg("user cache write failed")
	}
}

func key(email string) string {
	return "user:email:" + email
}
