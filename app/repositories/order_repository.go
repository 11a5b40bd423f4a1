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
	"github.com/nomfood/storefront/pkg/apperr"
	"github.com/nomfood/storefront/pkg/paginate"
)

const orderNotFound = "Không tìm thấy đơn hàng"

// OrderQuery holds the staff order listing filters.
type OrderQuery struct {
	Status string
	Search string
	Page   paginate.Params
}

// OrderFilter builds the $match document for q.
func OrderFilter(q OrderQuery) bson.D {
	return NewFilter().
		Eq("status", q.Status).
		Search(q.Search, "shippingAddress.name", "shippingAddress.phone", "orderNumber").
		Doc()
}

// OrderRepository handles the orders collection.
type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(OrdersCollection)}
}

func (r *OrderRepository) Insert(ctx context.Context, o *models.Order) error {
	now := time.Now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, o)
	if err != nil {
		return wrapErr(err, "")
	}
	o.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return findOne[models.Order](ctx, r.col, bson.D{{Key: "_id", Value: id}}, orderNotFound)
}

// Transition moves an order out of status from, applying set and appending
// entry to statusHistory in one atomic update. The status precondition makes
// concurrent transitions fail with InvalidState instead of overwriting each
// other.
func (r *OrderRepository) Transition(ctx context.Context, id primitive.ObjectID, from string, set bson.D, entry models.StatusChange) (*models.Order, error) {
	set = append(set, bson.E{Key: "updatedAt", Value: entry.UpdatedAt})
	update := bson.D{
		{Key: "$set", Value: set},
		{Key: "$push", Value: bson.D{{Key: "statusHistory", Value: entry}}},
	}

	var o models.Order
	err := r.col.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}, {Key: "status", Value: from}},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return nil, findErr
		}
		return nil, apperr.InvalidState("Trạng thái đơn hàng đã thay đổi, vui lòng tải lại")
	}
	if err != nil {
		return nil, wrapErr(err, orderNotFound)
	}
	return &o, nil
}

// ListByUser returns the user's orders newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, p paginate.Params) ([]models.Order, int64, error) {
	items, total, err := findPage[models.Order](ctx, r.col, bson.D{{Key: "user", Value: userID}}, sortDoc(SortField{"createdAt", -1}), p)
	return items, total, wrapErr(err, "")
}

// OrderListPipeline pages the filtered orders and joins the customer.
func OrderListPipeline(q OrderQuery) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: OrderFilter(q)}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$skip", Value: q.Page.Skip()}},
		{{Key: "$limit", Value: q.Page.Limit64()}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: UsersCollection},
			{Key: "localField", Value: "user"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "customer"},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$project", Value: bson.D{{Key: "name", Value: 1}, {Key: "email", Value: 1}, {Key: "phone", Value: 1}}}},
			}},
		}}},
		{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$customer"}, {Key: "preserveNullAndEmptyArrays", Value: true}}}},
	}
}

// List returns orders matching q with the customer populated.
func (r *OrderRepository) List(ctx context.Context, q OrderQuery) ([]models.OrderView, int64, error) {
	items, err := aggregateAll[models.OrderView](ctx, r.col, OrderListPipeline(q))
	if err != nil {
		return nil, 0, wrapErr(err, "")
	}
	total, err := r.col.CountDocuments(ctx, OrderFilter(q))
	if err != nil {
		return nil, 0, wrapErr(err, "")
	}
	return items, total, nil
}

// HasDelivered reports whether userID has a delivered order containing productID.
func (r *OrderRepository) HasDelivered(ctx context.Context, userID, productID primitive.ObjectID) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.D{
		{Key: "user", Value: userID},
		{Key: "orderItems.product", Value: productID},
		{Key: "status", Value: models.StatusDelivered},
	}, options.Count().SetLimit(1))
	return n > 0, wrapErr(err, "")
}

// Count returns the number of orders matching filter.
func (r *OrderRepository) Count(ctx context.Context, filter bson.D) (int64, error) {
	if filter == nil {
		filter = bson.D{}
	}
	n, err := r.col.CountDocuments(ctx, filter)
	return n, wrapErr(err, "")
}
