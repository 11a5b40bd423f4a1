package repositories

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/pkg/paginate"
)

const userNotFound = "Không tìm thấy người dùng"

// UserQuery holds the admin user listing filters.
type UserQuery struct {
	Role   string
	Status string // active | inactive
	Search string
	Page   paginate.Params
}

// UserFilter builds the find filter for q.
func UserFilter(q UserQuery) bson.D {
	f := NewFilter().Eq("role", q.Role)
	switch q.Status {
	case "active":
		f.EqAny("isActive", true)
	case "inactive":
		f.EqAny("isActive", false)
	}
	f.Search(q.Search, "name", "email")
	return f.Doc()
}

// UserRepository handles the users collection.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(UsersCollection)}
}

// FindByEmail looks up a user by their (lowercased) email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, r.col, bson.D{{Key: "email", Value: strings.ToLower(email)}}, userNotFound)
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return findOne[models.User](ctx, r.col, bson.D{{Key: "_id", Value: id}}, userNotFound)
}

// EmailTaken reports whether another user than except owns email.
func (r *UserRepository) EmailTaken(ctx context.Context, email string, except primitive.ObjectID) (bool, error) {
	filter := bson.D{{Key: "email", Value: strings.ToLower(email)}}
	if !except.IsZero() {
		filter = append(filter, bson.E{Key: "_id", Value: bson.D{{Key: "$ne", Value: except}}})
	}
	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	return n > 0, wrapErr(err, "")
}

// Create persists a new user record.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	now := time.Now()
	u.Email = strings.ToLower(u.Email)
	u.CreatedAt, u.UpdatedAt = now, now
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		return wrapErr(err, "")
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Update applies set and returns the updated user.
func (r *UserRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.D) (*models.User, error) {
	set = append(set, bson.E{Key: "updatedAt", Value: time.Now()})
	var u models.User
	err := r.col.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err != nil {
		return nil, wrapErr(err, userNotFound)
	}
	return &u, nil
}

// TouchLogin stamps lastLogin.
func (r *UserRepository) TouchLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := r.col.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "lastLogin", Value: at}}}})
	return wrapErr(err, "")
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return wrapErr(err, "")
	}
	if res.DeletedCount == 0 {
		return wrapErr(mongo.ErrNoDocuments, userNotFound)
	}
	return nil
}

// List returns users newest first.
func (r *UserRepository) List(ctx context.Context, q UserQuery) ([]models.User, int64, error) {
	items, total, err := findPage[models.User](ctx, r.col, UserFilter(q), sortDoc(SortField{"createdAt", -1}), q.Page)
	return items, total, wrapErr(err, "")
}

// Count returns the number of users matching filter.
func (r *UserRepository) Count(ctx context.Context, filter bson.D) (int64, error) {
	if filter == nil {
		filter = bson.D{}
	}
	n, err := r.col.CountDocuments(ctx, filter)
	return n, wrapErr(err, "")
}

// RoleCount is one row of the users-by-role breakdown.
type RoleCount struct {
	Role  string `bson:"_id"   json:"role"`
	Count int64  `bson:"count" json:"count"`
}

// CountByRole groups users by role.
func (r *UserRepository) CountByRole(ctx context.Context) ([]RoleCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$role"}, {Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	out, err := aggregateAll[RoleCount](ctx, r.col, pipeline)
	return out, wrapErr(err, "")
}
