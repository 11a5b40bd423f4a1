package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Bucket is the calendar granularity of a time series.
type Bucket int

const (
	ByDay Bucket = iota
	ByWeek
	ByMonth
	ByYear
)

// BucketKey is the _id of a grouped series row.
type BucketKey struct {
	Year  int `bson:"year"            json:"year"`
	Month int `bson:"month,omitempty" json:"month,omitempty"`
	Week  int `bson:"week,omitempty"  json:"week,omitempty"`
	Day   int `bson:"day,omitempty"   json:"day,omitempty"`
}

// Label renders the key as 2024-06-01, 2024-W23, 2024-06 or 2024.
func (k BucketKey) Label() string {
	switch {
	case k.Day > 0:
		return fmt.Sprintf("%04d-%02d-%02d", k.Year, k.Month, k.Day)
	case k.Week > 0:
		return fmt.Sprintf("%04d-W%02d", k.Year, k.Week)
	case k.Month > 0:
		return fmt.Sprintf("%04d-%02d", k.Year, k.Month)
	}
	return fmt.Sprintf("%04d", k.Year)
}

// RevenuePoint is one bucket of the revenue series.
type RevenuePoint struct {
	Key               BucketKey `bson:"_id"               json:"_id"`
	Bucket            string    `bson:"-"                 json:"bucket"`
	Revenue           float64   `bson:"revenue"           json:"revenue"`
	Orders            int64     `bson:"orders"            json:"orders"`
	AverageOrderValue float64   `bson:"averageOrderValue" json:"averageOrderValue"`
}

// CountPoint is one bucket of a count series.
type CountPoint struct {
	Key    BucketKey `bson:"_id"   json:"_id"`
	Bucket string    `bson:"-"     json:"bucket"`
	Count  int64     `bson:"count" json:"count"`
}

// StatusCount is an order count for one status.
type StatusCount struct {
	Status string `bson:"_id"   json:"_id"`
	Count  int64  `bson:"count" json:"count"`
}

// TopProduct is a best seller joined to its current catalogue entry.
type TopProduct struct {
	ID        interface{} `bson:"_id"       json:"_id"`
	Name      string      `bson:"name"      json:"name"`
	Image     string      `bson:"image"     json:"image"`
	Price     float64     `bson:"price"     json:"price"`
	SoldCount int64       `bson:"soldCount" json:"soldCount"`
	Revenue   float64     `bson:"revenue"   json:"revenue"`
}

// CategoryRevenue is delivered revenue attributed to a product category.
type CategoryRevenue struct {
	Category string  `bson:"category" json:"category"`
	Revenue  float64 `bson:"revenue"  json:"revenue"`
	Orders   int64   `bson:"orders"   json:"orders"`
}

// RevenueTotals is the all-time delivered revenue summary.
type RevenueTotals struct {
	TotalRevenue      float64 `bson:"totalRevenue"      json:"totalRevenue"`
	AverageOrderValue float64 `bson:"averageOrderValue" json:"averageOrderValue"`
}

func sum(v interface{}) bson.D { return bson.D{{Key: "$sum", Value: v}} }

var lineRevenue = sum(bson.D{{Key: "$multiply", Value: bson.A{"$orderItems.price", "$orderItems.quantity"}}})

// BucketGroup returns the $group _id expression for b over createdAt.
func BucketGroup(b Bucket) bson.D {
	year := bson.E{Key: "year", Value: bson.D{{Key: "$year", Value: "$createdAt"}}}
	month := bson.E{Key: "month", Value: bson.D{{Key: "$month", Value: "$createdAt"}}}
	switch b {
	case ByDay:
		return bson.D{year, month, {Key: "day", Value: bson.D{{Key: "$dayOfMonth", Value: "$createdAt"}}}}
	case ByWeek:
		// ISO weeks start on Monday and may belong to the neighbouring year
		return bson.D{
			{Key: "year", Value: bson.D{{Key: "$isoWeekYear", Value: "$createdAt"}}},
			{Key: "week", Value: bson.D{{Key: "$isoWeek", Value: "$createdAt"}}},
		}
	case ByYear:
		return bson.D{year}
	default:
		return bson.D{year, month}
	}
}

var bucketSort = bson.D{{Key: "$sort", Value: bson.D{
	{Key: "_id.year", Value: 1},
	{Key: "_id.month", Value: 1},
	{Key: "_id.week", Value: 1},
	{Key: "_id.day", Value: 1},
}}}

func deliveredSince(since time.Time) bson.D {
	m := bson.D{{Key: "status", Value: "delivered"}}
	if !since.IsZero() {
		m = append(m, bson.E{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: since}}})
	}
	return bson.D{{Key: "$match", Value: m}}
}

// RevenueSeriesPipeline groups delivered orders created since by b.
func RevenueSeriesPipeline(since time.Time, b Bucket) mongo.Pipeline {
	return mongo.Pipeline{
		deliveredSince(since),
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: BucketGroup(b)},
			{Key: "revenue", Value: sum("$totalPrice")},
			{Key: "orders", Value: sum(1)},
			{Key: "averageOrderValue", Value: bson.D{{Key: "$avg", Value: "$totalPrice"}}},
		}}},
		bucketSort,
	}
}

// NewUsersPipeline groups user sign-ups since by b.
func NewUsersPipeline(since time.Time, b Bucket) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: since}}}}}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: BucketGroup(b)}, {Key: "count", Value: sum(1)}}}},
		bucketSort,
	}
}

// TopProductsPipeline ranks products by quantity sold in delivered orders.
// A zero since covers all time.
func TopProductsPipeline(since time.Time, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		deliveredSince(since),
		{{Key: "$unwind", Value: "$orderItems"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$orderItems.product"},
			{Key: "soldCount", Value: sum("$orderItems.quantity")},
			{Key: "revenue", Value: lineRevenue},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "soldCount", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: int64(limit)}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: ProductsCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "product"},
		}}},
		{{Key: "$unwind", Value: "$product"}},
		{{Key: "$project", Value: bson.D{
			{Key: "name", Value: "$product.name"},
			{Key: "image", Value: "$product.image"},
			{Key: "price", Value: "$product.price"},
			{Key: "soldCount", Value: 1},
			{Key: "revenue", Value: 1},
		}}},
	}
}

// CategoryRevenuePipeline attributes delivered line revenue to the current
// category of each product.
func CategoryRevenuePipeline(since time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		deliveredSince(since),
		{{Key: "$unwind", Value: "$orderItems"}},
		lookupStage(ProductsCollection, "orderItems.product", "product", "category"),
		{{Key: "$unwind", Value: "$product"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$product.category"},
			{Key: "revenue", Value: lineRevenue},
			{Key: "orders", Value: sum(1)},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "revenue", Value: -1}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "category", Value: "$_id"},
			{Key: "revenue", Value: 1},
			{Key: "orders", Value: 1},
		}}},
	}
}

// StatusCountPipeline counts orders per status, optionally since a time.
func StatusCountPipeline(since time.Time) mongo.Pipeline {
	p := mongo.Pipeline{}
	if !since.IsZero() {
		p = append(p, bson.D{{Key: "$match", Value: bson.D{{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: since}}}}}})
	}
	return append(p,
		bson.D{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$status"}, {Key: "count", Value: sum(1)}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	)
}

// StatisticsRepository runs read-only reporting aggregations.
type StatisticsRepository struct {
	db *mongo.Database
}

func NewStatisticsRepository(db *mongo.Database) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

func (r *StatisticsRepository) orders() *mongo.Collection { return r.db.Collection(OrdersCollection) }

// CountSince counts documents in collection created at or after since.
// A zero since counts the whole collection.
func (r *StatisticsRepository) CountSince(ctx context.Context, collection string, since time.Time) (int64, error) {
	filter := bson.D{}
	if !since.IsZero() {
		filter = bson.D{{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: since}}}}
	}
	n, err := r.db.Collection(collection).CountDocuments(ctx, filter)
	return n, wrapErr(err, "")
}

func (r *StatisticsRepository) DeliveredRevenue(ctx context.Context) (RevenueTotals, error) {
	pipeline := mongo.Pipeline{
		deliveredSince(time.Time{}),
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalRevenue", Value: sum("$totalPrice")},
			{Key: "averageOrderValue", Value: bson.D{{Key: "$avg", Value: "$totalPrice"}}},
		}}},
	}
	rows, err := aggregateAll[RevenueTotals](ctx, r.orders(), pipeline)
	if err != nil || len(rows) == 0 {
		return RevenueTotals{}, wrapErr(err, "")
	}
	return rows[0], nil
}

func (r *StatisticsRepository) StatusCounts(ctx context.Context, since time.Time) ([]StatusCount, error) {
	out, err := aggregateAll[StatusCount](ctx, r.orders(), StatusCountPipeline(since))
	return out, wrapErr(err, "")
}

func (r *StatisticsRepository) RevenueSeries(ctx context.Context, since time.Time, b Bucket) ([]RevenuePoint, error) {
	out, err := aggregateAll[RevenuePoint](ctx, r.orders(), RevenueSeriesPipeline(since, b))
	if err != nil {
		return nil, wrapErr(err, "")
	}
	for i := range out {
		out[i].Bucket = out[i].Key.Label()
	}
	return out, nil
}

func (r *StatisticsRepository) NewUsers(ctx context.Context, since time.Time, b Bucket) ([]CountPoint, error) {
	out, err := aggregateAll[CountPoint](ctx, r.db.Collection(UsersCollection), NewUsersPipeline(since, b))
	if err != nil {
		return nil, wrapErr(err, "")
	}
	for i := range out {
		out[i].Bucket = out[i].Key.Label()
	}
	return out, nil
}

func (r *StatisticsRepository) TopProducts(ctx context.Context, since time.Time, limit int) ([]TopProduct, error) {
	out, err := aggregateAll[TopProduct](ctx, r.orders(), TopProductsPipeline(since, limit))
	return out, wrapErr(err, "")
}

func (r *StatisticsRepository) CategoryRevenue(ctx context.Context, since time.Time) ([]CategoryRevenue, error) {
	out, err := aggregateAll[CategoryRevenue](ctx, r.orders(), CategoryRevenuePipeline(since))
	return out, wrapErr(err, "")
}
