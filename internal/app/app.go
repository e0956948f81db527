// Package app wires configuration, storage and the HTTP router into a
// runnable service for both deployment modes.
package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pmppiyas/GSRS-Blood-Server/internal/api"
	"github.com/pmppiyas/GSRS-Blood-Server/internal/api/handler"
	"github.com/pmppiyas/GSRS-Blood-Server/internal/core/domain"
	"github.com/pmppiyas/GSRS-Blood-Server/internal/core/ports"
	"github.com/pmppiyas/GSRS-Blood-Server/internal/core/service"
	"github.com/pmppiyas/GSRS-Blood-Server/internal/infrastructure/config"
	mongostore "github.com/pmppiyas/GSRS-Blood-Server/internal/infrastructure/db/mongo"
	redisstore "github.com/pmppiyas/GSRS-Blood-Server/internal/infrastructure/db/redis"
)

// Options carries process-level collaborators that tests replace.
type Options struct {
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// App is the assembled service.
type App struct {
	cfg      *config.Config
	log      zerolog.Logger
	echo     *echo.Echo
	provider *mongostore.Provider
	redis    *goredis.Client
}

// New assembles the service. In server mode the database connection is
// opened before New returns; a failure is logged and requests retry it. In
// serverless mode the connection is opened by the first request.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts Options) *App {
	a := &App{cfg: cfg, log: log}

	mongoCfg := cfg.Mongo.MongoSettings()
	a.provider = mongostore.NewProvider(mongoCfg, log)

	policy := cfg.Policy()
	if policy == domain.PolicyReturnExisting {
		a.provider.OnConnect(func(ctx context.Context, db *mongo.Database) error {
			return mongostore.EnsureUserIndexes(ctx, db.Collection(mongoCfg.Collection))
		})
	}

	if !cfg.Lazy() {
		_ = a.provider.Warm(ctx)
	}

	health := map[string]handler.PingFunc{"mongodb": a.provider.Ping}

	var cache ports.UserCache
	if rc := cfg.Redis.RedisSettings(); rc.Enabled() {
		client, err := redisstore.Connect(ctx, rc)
		if err != nil {
			log.Warn().Err(err).Msg("user cache disabled")
		} else {
			a.redis = client
			cache = redisstore.NewUserCache(client, cfg.Redis.CacheTTL, log)
			health["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		}
	}

	repo := mongostore.NewUserRepository(a.provider, mongoCfg.Timeout)
	users := service.NewUserService(repo, cache, policy, log)

	a.echo = api.NewRouter(api.Dependencies{
		Users:       users,
		Health:      health,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      log,
		Registerer:  opts.Registerer,
		Gatherer:    opts.Gatherer,
	})

	log.Info().
		Str("mode", cfg.Mode).
		Str("duplicate_policy", string(policy)).
		Bool("cache", cache != nil).
		Msg("service assembled")

	return a
}

// ServeHTTP lets the App act as a plain http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.echo.ServeHTTP(w, r)
}

// Start listens on the configured port until Shutdown.
func (a *App) Start() error {
	addr := ":" + a.cfg.Port
	a.log.Info().Str("addr", addr).Msg("GSRS server listening")
	if err := a.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server and releases storage connections.
func (a *App) Shutdown(ctx context.Context) error {
	errs := []error{a.echo.Shutdown(ctx), a.provider.Close(ctx)}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	return errors.Join(errs...)
}
