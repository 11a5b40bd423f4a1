// Package indexes declares the MongoDB indexes of every collection and
// creates them on demand:
//
//	foodstore index:sync
//
// createIndexes is idempotent, so Sync may run on every deploy.
package indexes

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nomfood/storefront/app/repositories"
	"github.com/nomfood/storefront/pkg/logger"
	"github.com/nomfood/storefront/pkg/queue"
)

// Spec is the index set of one collection.
type Spec struct {
	Collection string
	Models     []mongo.IndexModel
}

func asc(field string) mongo.IndexModel {
	return mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}}
}

func desc(field string) mongo.IndexModel {
	return mongo.IndexModel{Keys: bson.D{{Key: field, Value: -1}}}
}

func unique(keys bson.D, name string) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true).SetName(name)}
}

// All returns the indexes in creation order.
func All() []Spec {
	return []Spec{
		{Collection: repositories.UsersCollection, Models: []mongo.IndexModel{
			unique(bson.D{{Key: "email", Value: 1}}, "email_unique"),
			asc("role"),
			desc("createdAt"),
		}},
		{Collection: repositories.ProductsCollection, Models: []mongo.IndexModel{
			asc("category"),
			asc("price"),
			asc("isAvailable"),
			asc("isFeatured"),
			desc("rating"),
			desc("soldCount"),
			desc("createdAt"),
		}},
		{Collection: repositories.OrdersCollection, Models: []mongo.IndexModel{
			asc("user"),
			asc("status"),
			unique(bson.D{{Key: "orderNumber", Value: 1}}, "order_number_unique"),
			desc("createdAt"),
			asc("paymentStatus"),
		}},
		{Collection: repositories.ReviewsCollection, Models: []mongo.IndexModel{
			asc("product"),
			asc("user"),
			asc("rating"),
			asc("isApproved"),
			desc("createdAt"),
			unique(bson.D{{Key: "user", Value: 1}, {Key: "product", Value: 1}}, "user_product_unique"),
		}},
		{Collection: repositories.BannersCollection, Models: []mongo.IndexModel{
			asc("isActive"),
			asc("order"),
			{Keys: bson.D{{Key: "startDate", Value: 1}, {Key: "endDate", Value: 1}}},
		}},
		{Collection: queue.FailedJobsCollection, Models: []mongo.IndexModel{
			desc("failedAt"),
		}},
	}
}

// Sync creates every index in specs, stopping at the first failure.
func Sync(ctx context.Context, db *mongo.Database, specs []Spec) error {
	for _, s := range specs {
		names, err := db.Collection(s.Collection).Indexes().CreateMany(ctx, s.Models)
		if err != nil {
			return fmt.Errorf("indexes: %s: %w", s.Collection, err)
		}
		logger.Info("indexes synced", "collection", s.Collection, "indexes", len(names))
	}
	return nil
}
