package config

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"

	"github.com/pmppiyas/GSRS-Blood-Server/internal/core/domain"
	"github.com/pmppiyas/GSRS-Blood-Server/internal/infrastructure/db/mongo"
	"github.com/pmppiyas/GSRS-Blood-Server/internal/infrastructure/db/redis"
)

// Deployment modes.
const (
	ModeServer     = "server"
	ModeServerless = "serverless"
)

type Config struct {
	Port     string `env:"PORT,      default=5000" validate:"numeric"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// Mode selects eager connect (server) or lazy cached connect (serverless).
	Mode string `env:"DEPLOY_MODE, default=server" validate:"oneof=server serverless"`
	// DuplicatePolicy overrides the per-mode default when set.
	DuplicatePolicy string `env:"DUPLICATE_POLICY" validate:"omitempty,oneof=insert return_existing"`

	CORSOrigins []string `env:"CORS_ORIGINS, default=http://localhost:5173,http://localhost:5000,https://gsrsserver-pmppiyas-pmppiyas-projects.vercel.app,https://gsrsserver-iqs476wwf-pmppiyas-projects.vercel.app"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI        string        `env:"MONGO_URI"`
	User       string        `env:"DB_USER"          validate:"required_without=URI"`
	Password   string        `env:"DB_PASS"          validate:"required_without=URI"`
	Host       string        `env:"MONGO_HOST,       default=cluster0.fk8o9.mongodb.net"`
	AppName    string        `env:"MONGO_APP_NAME,   default=Cluster0"`
	Database   string        `env:"MONGO_DB,         default=Gsrsserver"`
	Collection string        `env:"MONGO_COLLECTION, default=Users"`
	Timeout    time.Duration `env:"MONGO_TIMEOUT,    default=10s"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,  default=0"`
	CacheTTL time.Duration `env:"CACHE_TTL, default=10m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the validate tags and reports offending fields by their
// environment variable names.
func (c *Config) Validate() error {
	err := newValidator().Struct(c)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.TrimSpace(strings.SplitN(f.Tag.Get("env"), ",", 2)[0])
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "required_without":
		return field + " is required when MONGO_URI is unset"
	case "numeric":
		return fmt.Sprintf("%s must be numeric, got %q", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// Policy returns the configured duplicate policy, defaulting per mode: the
// long-running server always inserts, the serverless handler returns an
// existing record.
func (c *Config) Policy() domain.DuplicatePolicy {
	if c.DuplicatePolicy != "" {
		return domain.DuplicatePolicy(c.DuplicatePolicy)
	}
	if c.Mode == ModeServerless {
		return domain.PolicyReturnExisting
	}
	return domain.PolicyInsert
}

// Lazy reports whether the database connection is deferred to first use.
func (c *Config) Lazy() bool {
	return c.Mode == ModeServerless
}

// Development enables human-friendly logs.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// MongoSettings converts to the connection manager's config.
func (c MongoConfig) MongoSettings() mongo.Config {
	uri := c.URI
	if uri == "" {
		uri = mongo.AtlasURI(c.User, c.Password, c.Host, c.AppName)
	}
	return mongo.Config{
		URI:        uri,
		Database:   c.Database,
		Collection: c.Collection,
		Timeout:    c.Timeout,
	}
}

// RedisSettings converts to the cache connection config.
func (c RedisConfig) RedisSettings() redis.Config {
	return redis.Config{Addr: c.Addr, Password: c.Password, DB: c.DB}
}
