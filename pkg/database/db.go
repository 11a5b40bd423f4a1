// Package database owns the process-wide MongoDB client.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/nomfood/storefront/config"
	"github.com/nomfood/storefront/pkg/metrics"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

// Connect opens the MongoDB client and verifies the primary is reachable.
// Returns an error instead of calling log.Fatal so the caller can
// shut down gracefully.
func Connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions())
	if err != nil {
		return fmt.Errorf("database: connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("database: ping: %w", err)
	}

	Client = client
	DB = client.Database(config.MongoDatabase())
	return nil
}

// Open configures the client without waiting for a server. Commands that
// only need collection handles, such as route:list, use it.
func Open(ctx context.Context) error {
	client, err := mongo.Connect(ctx, clientOptions())
	if err != nil {
		return fmt.Errorf("database: open: %w", err)
	}
	Client = client
	DB = client.Database(config.MongoDatabase())
	return nil
}

func clientOptions() *options.ClientOptions {
	return options.Client().
		ApplyURI(config.MongoURI()).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(2 * time.Minute).
		SetMonitor(commandMonitor())
}

// Disconnect closes the client opened by Connect. Safe to call when not connected.
func Disconnect(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	err := Client.Disconnect(ctx)
	Client, DB = nil, nil
	return err
}

// Collection is a shorthand for DB.Collection.
func Collection(name string) *mongo.Collection {
	return DB.Collection(name)
}

// commandMonitor reports every command's latency to pkg/metrics.
func commandMonitor() *event.CommandMonitor {
	return &event.CommandMonitor{
		Succeeded: func(_ context.Context, e *event.CommandSucceededEvent) {
			metrics.ObserveDBCommand(e.CommandName, true, e.Duration)
		},
		Failed: func(_ context.Context, e *event.CommandFailedEvent) {
			metrics.ObserveDBCommand(e.CommandName, false, e.Duration)
		},
	}
}
