package listeners

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/app/services"
	"github.com/nomfood/storefront/pkg/event"
)

func TestProductChanged_ForgetsCategories(t *testing.T) {
	var forgotten []string
	orig := forget
	forget = func(_ context.Context, keys ...string) error {
		forgotten = append(forgotten, keys...)
		return nil
	}
	defer func() { forget = orig }()

	bus := event.NewBus()
	Register(bus)
	bus.Fire(context.Background(), services.EventProductChanged,
		services.ProductChanged{ID: primitive.NewObjectID(), Action: "updated"})

	assert.Equal(t, []string{services.CategoriesCacheKey}, forgotten)
}

func TestListeners_IgnoreForeignPayloads(t *testing.T) {
	bus := event.NewBus()
	Register(bus)
	ctx := context.Background()

	assert.NotPanics(t, func() {
		bus.Fire(ctx, services.EventOrderPlaced, "not an order")
		bus.Fire(ctx, services.EventOrderStatusChanged, services.OrderStatusChanged{})
		bus.Fire(ctx, services.EventReviewChanged, nil)
		bus.Fire(ctx, services.EventOrderStatusChanged, services.OrderStatusChanged{
			Order: &models.Order{OrderNumber: "NF1"}, From: "pending", To: "confirmed",
		})
	})
}
