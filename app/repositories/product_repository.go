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

const productNotFound = "Sản phẩm không tồn tại"

// ProductQuery holds the catalogue listing filters.
type ProductQuery struct {
	Category  string
	Available *bool // nil means "available only"
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
	Sort      string
	Page      paginate.Params
}

// ProductFilter builds the find filter for q.
func ProductFilter(q ProductQuery) bson.D {
	f := NewFilter()
	if q.Category != "all" {
		f.Eq("category", q.Category)
	}
	available := true
	if q.Available != nil {
		available = *q.Available
	}
	f.Bool("isAvailable", &available)
	f.Search(q.Search, "name", "description")
	f.Range("price", q.MinPrice, q.MaxPrice)
	return f.Doc()
}

// ProductSort maps the sort enum; unknown values sort newest first.
func ProductSort(sort string) bson.D {
	switch sort {
	case "price_asc":
		return sortDoc(SortField{"price", 1})
	case "price_desc":
		return sortDoc(SortField{"price", -1})
	case "rating":
		return sortDoc(SortField{"rating", -1}, SortField{"numReviews", -1})
	case "popular":
		return sortDoc(SortField{"soldCount", -1})
	default:
		return sortDoc(SortField{"createdAt", -1})
	}
}

// ProductRepository handles the products collection.
type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(ProductsCollection)}
}

func (r *ProductRepository) List(ctx context.Context, q ProductQuery) ([]models.Product, int64, error) {
	items, total, err := findPage[models.Product](ctx, r.col, ProductFilter(q), ProductSort(q.Sort), q.Page)
	return items, total, wrapErr(err, "")
}

// Categories returns the distinct categories of available products.
func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	raw, err := r.col.Distinct(ctx, "category", bson.D{{Key: "isAvailable", Value: true}})
	if err != nil {
		return nil, wrapErr(err, "")
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// Featured returns up to limit newest featured, available products.
func (r *ProductRepository) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, bson.D{{Key: "isFeatured", Value: true}, {Key: "isAvailable", Value: true}}, opts)
	if err != nil {
		return nil, wrapErr(err, "")
	}
	var out []models.Product
	if err := cur.All(ctx, &out); err != nil {
		return nil, wrapErr(err, "")
	}
	return out, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return findOne[models.Product](ctx, r.col, bson.D{{Key: "_id", Value: id}}, productNotFound)
}

// IncrementViews bumps viewCount and returns the updated product.
func (r *ProductRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	err := r.col.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "viewCount", Value: 1}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		return nil, wrapErr(err, productNotFound)
	}
	return &p, nil
}

func (r *ProductRepository) Insert(ctx context.Context, p *models.Product) error {
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return wrapErr(err, "")
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Update applies set and returns the updated product.
func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.D) (*models.Product, error) {
	set = append(set, bson.E{Key: "updatedAt", Value: time.Now()})
	var p models.Product
	err := r.col.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		return nil, wrapErr(err, productNotFound)
	}
	return &p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return wrapErr(err, "")
	}
	if res.DeletedCount == 0 {
		return wrapErr(mongo.ErrNoDocuments, productNotFound)
	}
	return nil
}

// SetRating stores the aggregated rating and review count.
func (r *ProductRepository) SetRating(ctx context.Context, id primitive.ObjectID, rating float64, count int) error {
	_, err := r.col.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "rating", Value: rating},
			{Key: "numReviews", Value: count},
			{Key: "updatedAt", Value: time.Now()},
		}}},
	)
	return wrapErr(err, "")
}

// AddSold increments soldCount for every line of a delivered order.
func (r *ProductRepository) AddSold(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(items))
	for _, it := range items {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.D{{Key: "_id", Value: it.Product}}).
			SetUpdate(bson.D{{Key: "$inc", Value: bson.D{{Key: "soldCount", Value: it.Quantity}}}}))
	}
	_, err := r.col.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return wrapErr(err, "")
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.D{})
	return n, wrapErr(err, "")
}
