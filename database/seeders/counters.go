package seeders

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nomfood/storefront/app/repositories"
)

func init() {
	Register("counters", SeedCounters)
}

// SeedCounters lifts the order sequence above the existing order count so
// numbers stay unique after importing orders from elsewhere.
func SeedCounters(ctx context.Context, db *mongo.Database) error {
	n, err := db.Collection(repositories.OrdersCollection).CountDocuments(ctx, bson.D{})
	if err != nil {
		return err
	}
	return repositories.NewCounterRepository(db).Seed(ctx, repositories.OrderSequence, n)
}
