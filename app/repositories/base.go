package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nomfood/storefront/pkg/paginate"
)

// Collection names.
const (
	UsersCollection    = "users"
	ProductsCollection = "products"
	OrdersCollection   = "orders"
	ReviewsCollection  = "reviews"
	BannersCollection  = "banners"
	CountersCollection = "counters"
)

// findPage runs the page query and the matching count.
func findPage[T any](ctx context.Context, col *mongo.Collection, filter, sort bson.D, p paginate.Params) ([]T, int64, error) {
	opts := options.Find().SetSort(sort).SetSkip(p.Skip()).SetLimit(p.Limit64())
	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	var items []T
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// aggregateAll runs pipeline and decodes every result into T.
func aggregateAll[T any](ctx context.Context, col *mongo.Collection, pipeline mongo.Pipeline) ([]T, error) {
	cur, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// findOne decodes a single document or returns a classified NotFound.
func findOne[T any](ctx context.Context, col *mongo.Collection, filter interface{}, notFoundMsg string) (*T, error) {
	var out T
	if err := col.FindOne(ctx, filter).Decode(&out); err != nil {
		return nil, wrapErr(err, notFoundMsg)
	}
	return &out, nil
}
