package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nomfood/storefront/app/models"
)

const bannerNotFound = "Không tìm thấy banner"

var bannerSort = bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: -1}}

// ActiveBannerFilter matches enabled banners whose optional date window
// contains now.
func ActiveBannerFilter(now time.Time) bson.D {
	return bson.D{
		{Key: "isActive", Value: true},
		{Key: "$and", Value: bson.A{
			bson.D{{Key: "$or", Value: bson.A{
				bson.D{{Key: "startDate", Value: bson.D{{Key: "$exists", Value: false}}}},
				bson.D{{Key: "startDate", Value: nil}},
				bson.D{{Key: "startDate", Value: bson.D{{Key: "$lte", Value: now}}}},
			}}},
			bson.D{{Key: "$or", Value: bson.A{
				bson.D{{Key: "endDate", Value: bson.D{{Key: "$exists", Value: false}}}},
				bson.D{{Key: "endDate", Value: nil}},
				bson.D{{Key: "endDate", Value: bson.D{{Key: "$gte", Value: now}}}},
			}}},
		}},
	}
}

// BannerRepository handles the banners collection.
type BannerRepository struct {
	col *mongo.Collection
}

func NewBannerRepository(db *mongo.Database) *BannerRepository {
	return &BannerRepository{col: db.Collection(BannersCollection)}
}

func (r *BannerRepository) find(ctx context.Context, filter bson.D) ([]models.Banner, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bannerSort))
	if err != nil {
		return nil, wrapErr(err, "")
	}
	var out []models.Banner
	if err := cur.All(ctx, &out); err != nil {
		return nil, wrapErr(err, "")
	}
	return out, nil
}

// List returns banners by display order, optionally filtered by isActive.
func (r *BannerRepository) List(ctx context.Context, active *bool) ([]models.Banner, error) {
	return r.find(ctx, NewFilter().Bool("isActive", active).Doc())
}

// Active returns banners that are currently on display.
func (r *BannerRepository) Active(ctx context.Context, now time.Time) ([]models.Banner, error) {
	return r.find(ctx, ActiveBannerFilter(now))
}

func (r *BannerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Banner, error) {
	return findOne[models.Banner](ctx, r.col, bson.D{{Key: "_id", Value: id}}, bannerNotFound)
}

// OrderTaken reports whether a banner other than except uses order.
func (r *BannerRepository) OrderTaken(ctx context.Context, order int, except primitive.ObjectID) (bool, error) {
	filter := bson.D{{Key: "order", Value: order}}
	if !except.IsZero() {
		filter = append(filter, bson.E{Key: "_id", Value: bson.D{{Key: "$ne", Value: except}}})
	}
	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	return n > 0, wrapErr(err, "")
}

// NextOrder returns one past the highest order in use, or 1.
func (r *BannerRepository) NextOrder(ctx context.Context) (int, error) {
	var last models.Banner
	err := r.col.FindOne(ctx, bson.D{}, options.FindOne().SetSort(bson.D{{Key: "order", Value: -1}})).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 1, nil
	}
	if err != nil {
		return 0, wrapErr(err, "")
	}
	return last.Order + 1, nil
}

func (r *BannerRepository) Insert(ctx context.Context, b *models.Banner) error {
	now := time.Now()
	b.CreatedAt, b.UpdatedAt = now, now
	res, err := r.col.InsertOne(ctx, b)
	if err != nil {
		return wrapErr(err, "")
	}
	b.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Update applies set and returns the updated banner.
func (r *BannerRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.D) (*models.Banner, error) {
	set = append(set, bson.E{Key: "updatedAt", Value: time.Now()})
	var b models.Banner
	err := r.col.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&b)
	if err != nil {
		return nil, wrapErr(err, bannerNotFound)
	}
	return &b, nil
}

// Toggle flips isActive atomically.
func (r *BannerRepository) Toggle(ctx context.Context, id primitive.ObjectID) (*models.Banner, error) {
	update := mongo.Pipeline{{{Key: "$set", Value: bson.D{
		{Key: "isActive", Value: bson.D{{Key: "$not", Value: bson.A{"$isActive"}}}},
		{Key: "updatedAt", Value: "$$NOW"},
	}}}}
	var b models.Banner
	err := r.col.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&b)
	if err != nil {
		return nil, wrapErr(err, bannerNotFound)
	}
	return &b, nil
}

// Reorder assigns new display orders in one unordered bulk write.
func (r *BannerRepository) Reorder(ctx context.Context, orders map[primitive.ObjectID]int) error {
	if len(orders) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(orders))
	now := time.Now()
	for id, order := range orders {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.D{{Key: "_id", Value: id}}).
			SetUpdate(bson.D{{Key: "$set", Value: bson.D{{Key: "order", Value: order}, {Key: "updatedAt", Value: now}}}}))
	}
	_, err := r.col.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return wrapErr(err, "")
}

// Increment bumps a counter field (clickCount, viewCount).
func (r *BannerRepository) Increment(ctx context.Context, id primitive.ObjectID, field string) error {
	res, err := r.col.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: field, Value: 1}}}})
	if err != nil {
		return wrapErr(err, "")
	}
	if res.MatchedCount == 0 {
		return wrapErr(mongo.ErrNoDocuments, bannerNotFound)
	}
	return nil
}

func (r *BannerRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return wrapErr(err, "")
	}
	if res.DeletedCount == 0 {
		return wrapErr(mongo.ErrNoDocuments, bannerNotFound)
	}
	return nil
}
