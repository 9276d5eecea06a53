package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ConnectMongo dials the cluster at uri, pings it with retries, and returns
// the named database. A non-empty key replaces the password embedded in uri.
func ConnectMongo(ctx context.Context, uri, key, dbName string) (*mongo.Database, error) {
	clientOpts := options.Client().ApplyURI(uri)
	if !applyStoreKey(clientOpts, key) {
		log.Warn().Msg("⚠️  STORE_URL has no username; STORE_KEY is not used for MongoDB auth")
	}
	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("database: mongo connect: %w", err)
	}

	ping := func(ctx context.Context) error { return client.Ping(ctx, nil) }
	if err := pingWithRetry(ctx, "mongo", defaultBackOff(), ping); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database: mongo ping: %w", err)
	}

	log.Info().Str("db", dbName).Msg("✅ Connected to MongoDB")
	return client.Database(dbName), nil
}

// applyStoreKey sets key as the password of the credential parsed from the
// URI. It reports false when a key was given but the URI names no user to
// authenticate.
func applyStoreKey(opts *options.ClientOptions, key string) bool {
	if key == "" {
		return true
	}
	if opts.Auth == nil || opts.Auth.Username == "" {
		return false
	}
	opts.Auth.Password = key
	opts.Auth.PasswordSet = true
	return true
}
