package controllers

import (
	"context"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/app/repositories"
	"github.com/nomfood/storefront/app/services"
	"github.com/nomfood/storefront/pkg/auth"
	"github.com/nomfood/storefront/pkg/ctx"
	"github.com/nomfood/storefront/pkg/paginate"
)

const msgReviewProductNotFound = "Sản phẩm không tồn tại"

type reviewService interface {
	Create(ctx context.Context, user auth.Principal, in services.CreateReviewInput) (*models.ReviewView, error)
	ForProduct(ctx context.Context, q repositories.ProductReviewQuery) (services.ProductReviews, error)
	List(ctx context.Context, q repositories.ReviewQuery) (paginate.Page[models.ReviewView], error)
	Approve(ctx context.Context, id string) (*models.Review, error)
	Reject(ctx context.Context, id string) (*models.Review, error)
	Reply(ctx context.Context, id string, in services.ReplyInput, actor auth.Principal) (*models.Review, error)
	Delete(ctx context.Context, id string) error
}

type ReviewController struct {
	svc reviewService
}

func NewReviewController(svc reviewService) *ReviewController {
	return &ReviewController{svc: svc}
}

func (rc *ReviewController) Store(c *ctx.Context) {
	var in services.CreateReviewInput
	if !c.BindJSON(&in) {
		return
	}
	rv, err := rc.svc.Create(c.Context(), principal(c), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created("Đánh giá thành công", map[string]any{"review": rv})
}

// ForProduct pages the approved reviews of a product with the per-star
// distribution.
func (rc *ReviewController) ForProduct(c *ctx.Context) {
	id, err := repositories.ParseID(c.Param("productId"), msgReviewProductNotFound)
	if err != nil {
		c.Fail(err)
		return
	}
	q := repositories.ProductReviewQuery{
		Product: id,
		Rating:  c.QueryInt("rating", 0),
		Sort:    c.Query("sort"),
		Page:    c.Page(reviewPageSize),
	}
	res, err := rc.svc.ForProduct(c.Context(), q)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated("reviews", res.Items, res.Meta, map[string]any{"stats": res.Stats})
}

func (rc *ReviewController) Index(c *ctx.Context) {
	q := repositories.ReviewQuery{
		Status: c.Query("status"),
		Rating: c.QueryInt("rating", 0),
		Search: c.Query("search"),
		Page:   c.Page(reviewPageSize),
	}
	page, err := rc.svc.List(c.Context(), q)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated("reviews", page.Items, page.Meta, nil)
}

func (rc *ReviewController) Approve(c *ctx.Context) {
	rv, err := rc.svc.Approve(c.Context(), c.Param("id"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message("Duyệt đánh giá thành công", map[string]any{"review": rv})
}

func (rc *ReviewController) Reject(c *ctx.Context) {
	rv, err := rc.svc.Reject(c.Context(), c.Param("id"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message("Từ chối đánh giá thành công", map[string]any{"review": rv})
}

func (rc *ReviewController) Reply(c *ctx.Context) {
	var in services.ReplyInput
	if !c.BindJSON(&in) {
		return
	}
	rv, err := rc.svc.Reply(c.Context(), c.Param("id"), in, principal(c))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message("Phản hồi đánh giá thành công", map[string]any{"review": rv})
}

func (rc *ReviewController) Destroy(c *ctx.Context) {
	if err := rc.svc.Delete(c.Context(), c.Param("id")); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Xóa đánh giá thành công", nil)
}
