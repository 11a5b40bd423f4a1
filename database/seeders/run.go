// Package seeders provides a registry of database seed functions.
//
// A seeder registers itself from init():
//
//	func init() {
//	    Register("users", SeedUsers)
//	}
//
// Seeders upsert by a natural key and only set fields on insert, so
// running `foodstore seed` twice leaves existing documents untouched.
package seeders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nomfood/storefront/pkg/logger"
)

// SeederFunc is the signature for a seed function.
type SeederFunc func(ctx context.Context, db *mongo.Database) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder to the global registry.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// Names lists the registered seeders in run order.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}

// RunAll executes every registered seeder in registration order.
// It stops on the first error.
func RunAll(ctx context.Context, db *mongo.Database) error {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	for _, e := range current {
		start := time.Now()
		if err := e.fn(ctx, db); err != nil {
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		logger.Info("seeder done", "seeder", e.name, "took", time.Since(start).String())
	}
	return nil
}

// insertMissing upserts each document keyed by key, writing the document
// only when no match exists. It returns how many were inserted.
func insertMissing(ctx context.Context, col *mongo.Collection, key string, docs []bson.D) (int, error) {
	inserted := 0
	for _, doc := range docs {
		var match interface{}
		for _, e := range doc {
			if e.Key == key {
				match = e.Value
				break
			}
		}
		res, err := col.UpdateOne(ctx,
			bson.D{{Key: key, Value: match}},
			bson.D{{Key: "$setOnInsert", Value: doc}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return inserted, err
		}
		if res.UpsertedCount > 0 {
			inserted++
		}
	}
	return inserted, nil
}
