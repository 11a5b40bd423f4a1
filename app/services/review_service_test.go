package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/pkg/apperr"
	"github.com/nomfood/storefront/pkg/auth"
)

type reviewFixture struct {
	svc      *ReviewService
	reviews  *fakeReviews
	products *fakeProducts
	orders   *fakeOrders
	events   *fakeEvents
	product  *models.Product
	buyer    auth.Principal
}

func newReviewFixture() *reviewFixture {
	f := &reviewFixture{
		reviews: newFakeReviews(),
		orders:  newFakeOrders(),
		events:  &fakeEvents{},
		product: &models.Product{Name: "Bánh mì thịt", Price: 30000, IsAvailable: true},
		buyer:   auth.Principal{ID: primitive.NewObjectID(), Role: auth.RoleUser, Name: "Bình"},
	}
	f.products = newFakeProducts(f.product)
	ratings := NewRatingService(f.reviews, f.products, &fakeJobs{})
	f.svc = NewReviewService(f.reviews, f.products, f.orders, ratings, f.events)
	return f
}

func (f *reviewFixture) deliver(status string) {
	f.orders.put(models.Order{
		User:       f.buyer.ID,
		Status:     status,
		OrderItems: []models.OrderItem{{Product: f.product.ID, Quantity: 1, Price: 30000}},
	})
}

func (f *reviewFixture) input(rating int) CreateReviewInput {
	return CreateReviewInput{Product: f.product.ID.Hex(), Rating: rating, Comment: " ngon "}
}

func TestReviewCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a delivered order", func(t *testing.T) {
		f := newReviewFixture()
		f.deliver(models.StatusShipping)

		_, err := f.svc.Create(ctx, f.buyer, f.input(5))
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindBusiness))
		assert.Equal(t, msgReviewNotBought, message(err))
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newReviewFixture()
		in := f.input(5)
		in.Product = primitive.NewObjectID().Hex()
		_, err := f.svc.Create(ctx, f.buyer, in)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("accepted pending moderation", func(t *testing.T) {
		f := newReviewFixture()
		f.deliver(models.StatusDelivered)

		view, err := f.svc.Create(ctx, f.buyer, f.input(5))
		require.NoError(t, err)
		assert.False(t, view.IsApproved)
		assert.Equal(t, "ngon", view.Comment)
		assert.Equal(t, []string{}, view.Images)
		require.NotNil(t, view.Reviewer)
		assert.Equal(t, "Bình", view.Reviewer.Name)
		require.NotNil(t, view.ProductInfo)
		assert.Equal(t, "Bánh mì thịt", view.ProductInfo.Name)

		// unapproved reviews do not count
		assert.Equal(t, 0, f.products.items[f.product.ID].NumReviews)
		assert.Equal(t, []string{EventReviewChanged}, f.events.names())
	})

	t.Run("second review is rejected", func(t *testing.T) {
		f := newReviewFixture()
		f.deliver(models.StatusDelivered)
		_, err := f.svc.Create(ctx, f.buyer, f.input(5))
		require.NoError(t, err)

		_, err = f.svc.Create(ctx, f.buyer, f.input(3))
		require.Error(t, err)
		assert.Equal(t, msgReviewDuplicate, message(err))
		assert.Len(t, f.reviews.items, 1)
	})

	t.Run("unique index race maps to duplicate", func(t *testing.T) {
		f := newReviewFixture()
		f.deliver(models.StatusDelivered)
		f.reviews.insertDup = true

		_, err := f.svc.Create(ctx, f.buyer, f.input(4))
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindDuplicate))
		assert.Equal(t, msgReviewDuplicate, message(err))
	})
}

func TestReviewModeration_KeepsRatingInStep(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	f.deliver(models.StatusDelivered)

	view, err := f.svc.Create(ctx, f.buyer, f.input(4))
	require.NoError(t, err)
	id := view.ID.Hex()

	_, err = f.svc.Approve(ctx, id)
	require.NoError(t, err)
	p := f.products.items[f.product.ID]
	assert.Equal(t, 4.0, p.Rating)
	assert.Equal(t, 1, p.NumReviews)

	_, err = f.svc.Reject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Rating)
	assert.Equal(t, 0, p.NumReviews)

	_, err = f.svc.Approve(ctx, id)
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, id))
	assert.Equal(t, 0.0, p.Rating)
	assert.Equal(t, 0, p.NumReviews)

	_, err = f.svc.Approve(ctx, id)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestReviewReply(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	f.deliver(models.StatusDelivered)
	view, err := f.svc.Create(ctx, f.buyer, f.input(5))
	require.NoError(t, err)

	staff := auth.Principal{ID: primitive.NewObjectID(), Role: auth.RoleStaff}
	rv, err := f.svc.Reply(ctx, view.ID.Hex(), ReplyInput{Message: "Cảm ơn bạn!"}, staff)
	require.NoError(t, err)
	require.NotNil(t, rv.AdminResponse)
	assert.Equal(t, "Cảm ơn bạn!", rv.AdminResponse.Message)
	assert.Equal(t, staff.ID, rv.AdminResponse.RespondedBy)
}

func TestReviewForProduct_Distribution(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	for _, r := range []int{5, 5, 3} {
		require.NoError(t, f.reviews.Insert(ctx, &models.Review{
			User: primitive.NewObjectID(), Product: f.product.ID, Rating: r, IsApproved: true,
		}))
	}

	page, err := f.svc.ForProduct(ctx, reviewQueryFor(f.product.ID))
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, int64(2), page.Stats[5])
	assert.Equal(t, int64(1), page.Stats[3])
	assert.Equal(t, int64(0), page.Stats[1])
}
