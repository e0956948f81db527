package mongo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings required to establish a MongoDB connection.
type Config struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// AtlasURI builds an SRV connection string for a MongoDB Atlas cluster.
// Credentials are escaped so passwords containing reserved characters survive.
func AtlasURI(user, pass, host, appName string) string {
	u := url.URL{
		Scheme: "mongodb+srv",
		User:   url.UserPassword(user, pass),
		Host:   host,
		Path:   "/",
	}
	if appName != "" {
		u.RawQuery = url.Values{"appName": {appName}}.Encode()
	}
	return u.String()
}

func (cfg Config) timeout() time.Duration {
	if cfg.Timeout <= 0 {
		return defaultTimeout
	}
	return cfg.Timeout
}

// Connect establishes a MongoDB client on the Stable API v1, verifies
// connectivity with a ping, and returns both the client and the selected
// database. A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.timeout())
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}
