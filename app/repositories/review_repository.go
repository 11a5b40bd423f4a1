package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/pkg/paginate"
)

const reviewNotFound = "Không tìm thấy đánh giá"

// ProductReviewQuery lists the approved reviews of one product.
type ProductReviewQuery struct {
	Product primitive.ObjectID
	Rating  int
	Sort    string
	Page    paginate.Params
}

// ReviewQuery holds the staff review listing filters.
type ReviewQuery struct {
	Status string // approved | pending
	Rating int
	Search string
	Page   paginate.Params
}

// ReviewFilter builds the staff listing filter.
func ReviewFilter(q ReviewQuery) bson.D {
	f := NewFilter()
	switch q.Status {
	case "approved":
		f.EqAny("isApproved", true)
	case "pending":
		f.EqAny("isApproved", false)
	}
	f.EqInt("rating", q.Rating)
	f.Search(q.Search, "comment")
	return f.Doc()
}

// ProductReviewFilter builds the storefront filter for one product.
func ProductReviewFilter(q ProductReviewQuery) bson.D {
	return NewFilter().
		EqAny("product", q.Product).
		EqAny("isApproved", true).
		EqInt("rating", q.Rating).
		Doc()
}

// ReviewSort maps the storefront sort enum; default is newest first.
func ReviewSort(sort string) bson.D {
	switch sort {
	case "rating_high":
		return sortDoc(SortField{"rating", -1}, SortField{"createdAt", -1})
	case "rating_low":
		return sortDoc(SortField{"rating", 1}, SortField{"createdAt", -1})
	case "oldest":
		return sortDoc(SortField{"createdAt", 1})
	default:
		return sortDoc(SortField{"createdAt", -1})
	}
}

func lookupStage(from, local, as string, fields ...string) bson.D {
	proj := bson.D{}
	for _, f := range fields {
		proj = append(proj, bson.E{Key: f, Value: 1})
	}
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: local},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: as},
		{Key: "pipeline", Value: bson.A{bson.D{{Key: "$project", Value: proj}}}},
	}}}
}

func unwindStage(path string) bson.D {
	return bson.D{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$" + path}, {Key: "preserveNullAndEmptyArrays", Value: true}}}}
}

// ReviewRepository handles the reviews collection.
type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(ReviewsCollection)}
}

func (r *ReviewRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	return findOne[models.Review](ctx, r.col, bson.D{{Key: "_id", Value: id}}, reviewNotFound)
}

// Exists reports whether userID already reviewed productID.
func (r *ReviewRepository) Exists(ctx context.Context, userID, productID primitive.ObjectID) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.D{{Key: "user", Value: userID}, {Key: "product", Value: productID}}, options.Count().SetLimit(1))
	return n > 0, wrapErr(err, "")
}

func (r *ReviewRepository) Insert(ctx context.Context, rv *models.Review) error {
	now := time.Now()
	rv.CreatedAt, rv.UpdatedAt = now, now
	res, err := r.col.InsertOne(ctx, rv)
	if err != nil {
		return wrapErr(err, "")
	}
	rv.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Update applies set and returns the updated review.
func (r *ReviewRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.D) (*models.Review, error) {
	set = append(set, bson.E{Key: "updatedAt", Value: time.Now()})
	var rv models.Review
	err := r.col.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&rv)
	if err != nil {
		return nil, wrapErr(err, reviewNotFound)
	}
	return &rv, nil
}

// Delete removes the review and returns it so the caller knows the product.
func (r *ReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var rv models.Review
	if err := r.col.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&rv); err != nil {
		return nil, wrapErr(err, reviewNotFound)
	}
	return &rv, nil
}

// ApprovedRatings returns the rating of every approved review of productID.
func (r *ReviewRepository) ApprovedRatings(ctx context.Context, productID primitive.ObjectID) ([]int, error) {
	opts := options.Find().SetProjection(bson.D{{Key: "rating", Value: 1}})
	cur, err := r.col.Find(ctx, bson.D{{Key: "product", Value: productID}, {Key: "isApproved", Value: true}}, opts)
	if err != nil {
		return nil, wrapErr(err, "")
	}
	var rows []struct {
		Rating int `bson:"rating"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, wrapErr(err, "")
	}
	out := make([]int, len(rows))
	for i, row := range rows {
		out[i] = row.Rating
	}
	return out, nil
}

// ListForProduct pages approved reviews with the reviewer populated.
func (r *ReviewRepository) ListForProduct(ctx context.Context, q ProductReviewQuery) ([]models.ReviewView, int64, error) {
	filter := ProductReviewFilter(q)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: ReviewSort(q.Sort)}},
		{{Key: "$skip", Value: q.Page.Skip()}},
		{{Key: "$limit", Value: q.Page.Limit64()}},
		lookupStage(UsersCollection, "user", "reviewer", "name", "avatar"),
		unwindStage("reviewer"),
	}
	items, err := aggregateAll[models.ReviewView](ctx, r.col, pipeline)
	if err != nil {
		return nil, 0, wrapErr(err, "")
	}
	total, err := r.col.CountDocuments(ctx, filter)
	return items, total, wrapErr(err, "")
}

// RatingDistribution counts approved reviews of productID per star, 1..5.
func (r *ReviewRepository) RatingDistribution(ctx context.Context, productID primitive.ObjectID) (map[int]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "product", Value: productID}, {Key: "isApproved", Value: true}}}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$rating"}, {Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}}}}},
	}
	rows, err := aggregateAll[struct {
		Rating int   `bson:"_id"`
		Count  int64 `bson:"count"`
	}](ctx, r.col, pipeline)
	if err != nil {
		return nil, wrapErr(err, "")
	}
	stats := map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, row := range rows {
		if row.Rating >= 1 && row.Rating <= 5 {
			stats[row.Rating] = row.Count
		}
	}
	return stats, nil
}

// List pages all reviews for staff with reviewer and product populated.
func (r *ReviewRepository) List(ctx context.Context, q ReviewQuery) ([]models.ReviewView, int64, error) {
	filter := ReviewFilter(q)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$skip", Value: q.Page.Skip()}},
		{{Key: "$limit", Value: q.Page.Limit64()}},
		lookupStage(UsersCollection, "user", "reviewer", "name", "email", "avatar"),
		unwindStage("reviewer"),
		lookupStage(ProductsCollection, "product", "productInfo", "name", "image"),
		unwindStage("productInfo"),
	}
	items, err := aggregateAll[models.ReviewView](ctx, r.col, pipeline)
	if err != nil {
		return nil, 0, wrapErr(err, "")
	}
	total, err := r.col.CountDocuments(ctx, filter)
	return items, total, wrapErr(err, "")
}

// Count returns the number of reviews matching filter.
func (r *ReviewRepository) Count(ctx context.Context, filter bson.D) (int64, error) {
	if filter == nil {
		filter = bson.D{}
	}
	n, err := r.col.CountDocuments(ctx, filter)
	return n, wrapErr(err, "")
}
