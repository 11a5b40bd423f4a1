package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nomfood/storefront/app/models"
)

// OrderSequence names the counter backing order numbers.
const OrderSequence = "orders"

// CounterRepository hands out monotonically increasing sequence values.
type CounterRepository struct {
	col *mongo.Collection
}

func NewCounterRepository(db *mongo.Database) *CounterRepository {
	return &CounterRepository{col: db.Collection(CountersCollection)}
}

// Next atomically increments the named counter and returns the new value.
// The counter document is created on first use.
func (r *CounterRepository) Next(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var c models.Counter
	err := r.col.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: name}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: int64(1)}}}},
		opts,
	).Decode(&c)
	if err != nil {
		return 0, wrapErr(err, "")
	}
	return c.Seq, nil
}

// Seed raises the counter to at least floor, used when adopting an
// existing orders collection.
func (r *CounterRepository) Seed(ctx context.Context, name string, floor int64) error {
	_, err := r.col.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: name}},
		bson.D{{Key: "$max", Value: bson.D{{Key: "seq", Value: floor}}}},
		options.Update().SetUpsert(true),
	)
	return wrapErr(err, "")
}
