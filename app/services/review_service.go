package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/app/repositories"
	"github.com/nomfood/storefront/pkg/apperr"
	"github.com/nomfood/storefront/pkg/auth"
	"github.com/nomfood/storefront/pkg/paginate"
)

const (
	msgReviewNotFound  = "Không tìm thấy đánh giá"
	msgReviewNotBought = "Bạn chỉ có thể đánh giá sản phẩm đã mua"
	msgReviewDuplicate = "Bạn đã đánh giá sản phẩm này rồi"
	msgReviewNoProduct = "Sản phẩm không tồn tại"
)

// CreateReviewInput is the review submission payload.
type CreateReviewInput struct {
	Product string   `json:"product" validate:"required,objectid"`
	Rating  int      `json:"rating"  validate:"required,min=1,max=5"`
	Comment string   `json:"comment" validate:"max=500"`
	Images  []string `json:"images"  validate:"max=5,dive,required"`
}

// ReplyInput is the staff reply payload.
type ReplyInput struct {
	Message string `json:"message" validate:"required,max=500"`
}

// ProductReviews is a page of approved reviews plus the per-star counts.
type ProductReviews struct {
	paginate.Page[models.ReviewView]
	Stats map[int]int64
}

// ReviewService manages reviews and keeps product ratings current.
type ReviewService struct {
	reviews  ReviewStore
	products ProductStore
	orders   OrderStore
	ratings  *RatingService
	events   Publisher
	now      Clock
}

func NewReviewService(reviews ReviewStore, products ProductStore, orders OrderStore, ratings *RatingService, events Publisher) *ReviewService {
	return &ReviewService{reviews: reviews, products: products, orders: orders, ratings: ratings, events: events, now: time.Now}
}

// Create accepts a review from a customer who received the product.
func (s *ReviewService) Create(ctx context.Context, user auth.Principal, in CreateReviewInput) (*models.ReviewView, error) {
	productID, err := repositories.ParseID(in.Product, msgReviewNoProduct)
	if err != nil {
		return nil, err
	}
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.NotFound(msgReviewNoProduct)
		}
		return nil, err
	}

	bought, err := s.orders.HasDelivered(ctx, user.ID, productID)
	if err != nil {
		return nil, err
	}
	if !bought {
		return nil, apperr.Business(msgReviewNotBought)
	}

	exists, err := s.reviews.Exists(ctx, user.ID, productID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Business(msgReviewDuplicate)
	}

	images := in.Images
	if images == nil {
		images = []string{}
	}
	now := s.now()
	rv := &models.Review{
		User:      user.ID,
		Product:   productID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
		Images:    images,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reviews.Insert(ctx, rv); err != nil {
		// lost the race against a concurrent submission
		if apperr.IsKind(err, apperr.KindDuplicate) {
			return nil, apperr.Duplicate("product", msgReviewDuplicate)
		}
		return nil, err
	}

	s.ratings.Refresh(ctx, productID)
	s.events.Fire(ctx, EventReviewChanged, ReviewChanged{Review: rv, Action: "created"})

	return &models.ReviewView{
		Review:      *rv,
		Reviewer:    &models.UserSummary{ID: user.ID, Name: user.Name},
		ProductInfo: &models.ProductSummary{ID: p.ID, Name: p.Name, Image: p.Image},
	}, nil
}

// ForProduct pages a product's approved reviews with the star distribution.
func (s *ReviewService) ForProduct(ctx context.Context, q repositories.ProductReviewQuery) (ProductReviews, error) {
	items, total, err := s.reviews.ListForProduct(ctx, q)
	if err != nil {
		return ProductReviews{}, err
	}
	stats, err := s.reviews.RatingDistribution(ctx, q.Product)
	if err != nil {
		return ProductReviews{}, err
	}
	return ProductReviews{Page: paginate.NewPage(items, q.Page, total), Stats: stats}, nil
}

// List pages every review for staff moderation.
func (s *ReviewService) List(ctx context.Context, q repositories.ReviewQuery) (paginate.Page[models.ReviewView], error) {
	items, total, err := s.reviews.List(ctx, q)
	if err != nil {
		return paginate.Page[models.ReviewView]{}, err
	}
	return paginate.NewPage(items, q.Page, total), nil
}

func (s *ReviewService) id(hex string) (primitive.ObjectID, error) {
	return repositories.ParseID(hex, msgReviewNotFound)
}

// Approve publishes a review and refreshes the product rating.
func (s *ReviewService) Approve(ctx context.Context, id string) (*models.Review, error) {
	return s.setApproved(ctx, id, true, "approved")
}

// Reject hides a review and refreshes the product rating.
func (s *ReviewService) Reject(ctx context.Context, id string) (*models.Review, error) {
	return s.setApproved(ctx, id, false, "rejected")
}

func (s *ReviewService) setApproved(ctx context.Context, hex string, approved bool, action string) (*models.Review, error) {
	id, err := s.id(hex)
	if err != nil {
		return nil, err
	}
	rv, err := s.reviews.Update(ctx, id, bson.D{{Key: "isApproved", Value: approved}})
	if err != nil {
		return nil, err
	}
	s.ratings.Refresh(ctx, rv.Product)
	s.events.Fire(ctx, EventReviewChanged, ReviewChanged{Review: rv, Action: action})
	return rv, nil
}

// Reply attaches a staff response.
func (s *ReviewService) Reply(ctx context.Context, hex string, in ReplyInput, actor auth.Principal) (*models.Review, error) {
	id, err := s.id(hex)
	if err != nil {
		return nil, err
	}
	resp := models.AdminResponse{
		Message:     strings.TrimSpace(in.Message),
		RespondedBy: actor.ID,
		CreatedAt:   s.now(),
	}
	rv, err := s.reviews.Update(ctx, id, bson.D{{Key: "adminResponse", Value: resp}})
	if err != nil {
		return nil, err
	}
	s.events.Fire(ctx, EventReviewChanged, ReviewChanged{Review: rv, Action: "replied"})
	return rv, nil
}

// Delete removes a review and refreshes the product rating.
func (s *ReviewService) Delete(ctx context.Context, hex string) error {
	id, err := s.id(hex)
	if err != nil {
		return err
	}
	rv, err := s.reviews.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.ratings.Refresh(ctx, rv.Product)
	s.events.Fire(ctx, EventReviewChanged, ReviewChanged{Review: rv, Action: "deleted"})
	return nil
}
