// Package services holds the storefront's domain logic. Services depend on
// the small store interfaces below; app/repositories satisfies them against
// MongoDB and the tests satisfy them in memory.
package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/app/repositories"
	"github.com/nomfood/storefront/pkg/paginate"
	"github.com/nomfood/storefront/pkg/queue"
)

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

type OrderStore interface {
	Insert(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	Transition(ctx context.Context, id primitive.ObjectID, from string, set bson.D, entry models.StatusChange) (*models.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, p paginate.Params) ([]models.Order, int64, error)
	List(ctx context.Context, q repositories.OrderQuery) ([]models.OrderView, int64, error)
	HasDelivered(ctx context.Context, userID, productID primitive.ObjectID) (bool, error)
}

type ProductStore interface {
	List(ctx context.Context, q repositories.ProductQuery) ([]models.Product, int64, error)
	Categories(ctx context.Context) ([]string, error)
	Featured(ctx context.Context, limit int) ([]models.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Insert(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.D) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetRating(ctx context.Context, id primitive.ObjectID, rating float64, count int) error
	AddSold(ctx context.Context, items []models.OrderItem) error
}

type ReviewStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	Exists(ctx context.Context, userID, productID primitive.ObjectID) (bool, error)
	Insert(ctx context.Context, rv *models.Review) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.D) (*models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	ApprovedRatings(ctx context.Context, productID primitive.ObjectID) ([]int, error)
	ListForProduct(ctx context.Context, q repositories.ProductReviewQuery) ([]models.ReviewView, int64, error)
	RatingDistribution(ctx context.Context, productID primitive.ObjectID) (map[int]int64, error)
	List(ctx context.Context, q repositories.ReviewQuery) ([]models.ReviewView, int64, error)
}

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	EmailTaken(ctx context.Context, email string, except primitive.ObjectID) (bool, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.D) (*models.User, error)
	TouchLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, q repositories.UserQuery) ([]models.User, int64, error)
	Count(ctx context.Context, filter bson.D) (int64, error)
	CountByRole(ctx context.Context) ([]repositories.RoleCount, error)
}

type BannerStore interface {
	List(ctx context.Context, active *bool) ([]models.Banner, error)
	Active(ctx context.Context, now time.Time) ([]models.Banner, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Banner, error)
	OrderTaken(ctx context.Context, order int, except primitive.ObjectID) (bool, error)
	NextOrder(ctx context.Context) (int, error)
	Insert(ctx context.Context, b *models.Banner) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.D) (*models.Banner, error)
	Toggle(ctx context.Context, id primitive.ObjectID) (*models.Banner, error)
	Reorder(ctx context.Context, orders map[primitive.ObjectID]int) error
	Increment(ctx context.Context, id primitive.ObjectID, field string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type StatisticsStore interface {
	CountSince(ctx context.Context, collection string, since time.Time) (int64, error)
	DeliveredRevenue(ctx context.Context) (repositories.RevenueTotals, error)
	StatusCounts(ctx context.Context, since time.Time) ([]repositories.StatusCount, error)
	RevenueSeries(ctx context.Context, since time.Time, b repositories.Bucket) ([]repositories.RevenuePoint, error)
	NewUsers(ctx context.Context, since time.Time, b repositories.Bucket) ([]repositories.CountPoint, error)
	TopProducts(ctx context.Context, since time.Time, limit int) ([]repositories.TopProduct, error)
	CategoryRevenue(ctx context.Context, since time.Time) ([]repositories.CategoryRevenue, error)
}

// Sequence hands out monotonically increasing numbers per name.
type Sequence interface {
	Next(ctx context.Context, name string) (int64, error)
}

// Dispatcher enqueues background jobs.
type Dispatcher interface {
	Dispatch(ctx context.Context, job queue.Job) error
}

// Publisher announces committed domain changes.
type Publisher interface {
	Fire(ctx context.Context, name string, payload interface{})
}
