package mongo

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/semaphore"

	"github.com/pmppiyas/GSRS-Blood-Server/internal/core/domain"
)

// ConnectFunc opens a client and selects the database.
type ConnectFunc func(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error)

// ConnectHook runs once after each successful connect. Errors are logged and
// do not fail the connection.
type ConnectHook func(ctx context.Context, db *mongo.Database) error

// Provider owns the process-wide MongoDB connection. The first successful
// Database call connects and caches the handle; later calls reuse it.
// Failed attempts are not cached, so the next caller retries. Callers
// waiting for another caller's connect give up when their context ends.
type Provider struct {
	cfg     Config
	connect ConnectFunc
	log     zerolog.Logger

	// dial admits one connect or close at a time.
	dial *semaphore.Weighted

	mu     sync.Mutex
	hooks  []ConnectHook
	client *mongo.Client
	db     *mongo.Database
}

// NewProvider returns a Provider that connects with Connect.
func NewProvider(cfg Config, log zerolog.Logger) *Provider {
	return &Provider{cfg: cfg, connect: Connect, log: log, dial: semaphore.NewWeighted(1)}
}

// OnConnect registers h to run after every successful connect.
func (p *Provider) OnConnect(h ConnectHook) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hooks = append(p.hooks, h)
}

// Database returns the cached database, connecting first if needed.
// Connection failures are reported as domain.ErrDatabaseUnavailable.
func (p *Provider) Database(ctx context.Context) (*mongo.Database, error) {
	if db := p.cached(); db != nil {
		return db, nil
	}

	if err := p.dial.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDatabaseUnavailable, err)
	}
	defer p.dial.Release(1)

	// Another caller may have connected while we waited.
	if db := p.cached(); db != nil {
		return db, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDatabaseUnavailable, err)
	}

	client, db, err := p.connect(ctx, p.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDatabaseUnavailable, err)
	}

	p.mu.Lock()
	p.client, p.db = client, db
	hooks := append([]ConnectHook(nil), p.hooks...)
	p.mu.Unlock()
	p.log.Info().Str("database", p.cfg.Database).Msg("connected to mongodb")

	for _, h := range hooks {
		if err := h(ctx, db); err != nil {
			p.log.Warn().Err(err).Msg("connect hook failed")
		}
	}
	return db, nil
}

func (p *Provider) cached() *mongo.Database {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.db
}

// Collection returns the configured users collection.
func (p *Provider) Collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := p.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(p.cfg.Collection), nil
}

// Warm connects eagerly. A failure is logged and returned; the Provider stays
// usable and retries on the next Database call.
func (p *Provider) Warm(ctx context.Context) error {
	if _, err := p.Database(ctx); err != nil {
		p.log.Error().Err(err).Msg("database connection failed, will retry on demand")
		return err
	}
	return nil
}

// Ping verifies the cached connection is still alive.
func (p *Provider) Ping(ctx context.Context) error {
	db, err := p.Database(ctx)
	if err != nil {
		return err
	}
	return db.Client().Ping(ctx, nil)
}

// Connected reports whether a handle is cached.
func (p *Provider) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.db != nil
}

// Close disconnects the cached client, if any. It waits for an in-flight
// connect to finish, or for ctx to end.
func (p *Provider) Close(ctx context.Context) error {
	if err := p.dial.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.dial.Release(1)

	p.mu.Lock()
	client := p.client
	p.client, p.db = nil, nil
	p.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}
