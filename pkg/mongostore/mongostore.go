// Package mongostore owns the MongoDB client handle for the document store.
// The handle is constructed once at startup and injected into the data
// access layer; the driver manages its own connection pool and is safe for
// concurrent use.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Config struct {
	URI      string        `split_words:"true" required:"true"`
	Database string        `split_words:"true" default:"multi_agent"`
	Timeout  time.Duration `split_words:"true" default:"10s"`
}

type Store struct {
	client   *mongo.Client
	database *mongo.Database
}

func Connect(ctx context.Context, cfg Config) (*Store, error) {
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, errors.New("mongo uri is required")
	}
	dbName := strings.TrimSpace(cfg.Database)
	if dbName == "" {
		return nil, errors.New("mongo database name is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Store{
		client:   client,
		database: client.Database(dbName),
	}, nil
}

func MustConnect(ctx context.Context, cfg Config) *Store {
	store, err := Connect(ctx, cfg)
	if err != nil {
		panic(err)
	}
	return store
}

// Database exposes the underlying handle for the data access layer.
func (s *Store) Database() *mongo.Database {
	return s.database
}

func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
