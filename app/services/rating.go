package services

import (
	"context"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nomfood/storefront/pkg/logger"
	"github.com/nomfood/storefront/pkg/metrics"
	"github.com/nomfood/storefront/pkg/queue"
)

// AverageRating is the mean of ratings rounded half away from zero to one
// decimal place, with the number of ratings. No ratings gives 0, 0.
func AverageRating(ratings []int) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	var sum int64
	for _, r := range ratings {
		sum += int64(r)
	}
	mean := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(ratings))))
	avg, _ := mean.Round(1).Float64()
	return avg, len(ratings)
}

// RatingService keeps a product's rating and numReviews in step with its
// approved reviews.
type RatingService struct {
	reviews  ReviewStore
	products ProductStore
	jobs     Dispatcher
}

func NewRatingService(reviews ReviewStore, products ProductStore, jobs Dispatcher) *RatingService {
	return &RatingService{reviews: reviews, products: products, jobs: jobs}
}

// Recompute derives the aggregate from the approved reviews and stores it.
// It is idempotent.
func (s *RatingService) Recompute(ctx context.Context, productID primitive.ObjectID) (float64, int, error) {
	ratings, err := s.reviews.ApprovedRatings(ctx, productID)
	if err != nil {
		return 0, 0, err
	}
	avg, n := AverageRating(ratings)
	if err := s.products.SetRating(ctx, productID, avg, n); err != nil {
		return 0, 0, err
	}
	return avg, n, nil
}

// Refresh recomputes after a review write. A failure never fails the
// caller: it is logged and handed to the queue for retry.
func (s *RatingService) Refresh(ctx context.Context, productID primitive.ObjectID) {
	_, _, err := s.Recompute(ctx, productID)
	if err == nil {
		metrics.RatingRecomputes.WithLabelValues("ok").Inc()
		return
	}
	metrics.RatingRecomputes.WithLabelValues("failed").Inc()
	logger.WithCtx(ctx).Error("rating: recompute failed", "product", productID.Hex(), "error", err)

	if s.jobs == nil {
		return
	}
	if err := s.jobs.Dispatch(ctx, &RecomputeRatingJob{ProductID: productID.Hex()}); err != nil {
		logger.WithCtx(ctx).Error("rating: enqueue recompute failed", "product", productID.Hex(), "error", err)
		return
	}
	metrics.RatingRecomputes.WithLabelValues("queued").Inc()
}

// RecomputeRatingJob retries a failed recompute in the background.
type RecomputeRatingJob struct {
	ProductID string `json:"productId"`

	ratings *RatingService
}

func (j *RecomputeRatingJob) Handle(ctx context.Context) error {
	id, err := primitive.ObjectIDFromHex(j.ProductID)
	if err != nil {
		logger.Warn("rating: dropping job with bad product id", "product", j.ProductID)
		return nil
	}
	_, _, err = j.ratings.Recompute(ctx, id)
	return err
}

// RegisterJobs binds the background jobs to their services.
func RegisterJobs(m *queue.Manager, ratings *RatingService) {
	m.Register(queue.TypeName(&RecomputeRatingJob{}), func() queue.Job {
		return &RecomputeRatingJob{ratings: ratings}
	})
}
