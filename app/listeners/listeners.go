// Package listeners attaches the side effects of domain events: cache
// invalidation and the order audit trail.
package listeners

import (
	"context"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/app/services"
	"github.com/nomfood/storefront/pkg/cache"
	"github.com/nomfood/storefront/pkg/event"
	"github.com/nomfood/storefront/pkg/logger"
)

// forget is swapped in tests.
var forget = cache.Forget

// Register binds every listener to bus.
func Register(bus *event.Bus) {
	bus.Listen(services.EventProductChanged, ProductChanged)
	bus.Listen(services.EventOrderPlaced, OrderPlaced)
	bus.Listen(services.EventOrderStatusChanged, OrderStatusChanged)
	bus.Listen(services.EventReviewChanged, ReviewChanged)
}

// ProductChanged drops the cached category list.
func ProductChanged(ctx context.Context, payload interface{}) {
	if err := forget(ctx, services.CategoriesCacheKey); err != nil {
		logger.WithCtx(ctx).Warn("cache: forget categories", "error", err)
	}
	if e, ok := payload.(services.ProductChanged); ok {
		logger.WithCtx(ctx).Info("product changed", "product", e.ID.Hex(), "action", e.Action)
	}
}

func OrderPlaced(ctx context.Context, payload interface{}) {
	o, ok := payload.(*models.Order)
	if !ok {
		return
	}
	logger.WithCtx(ctx).Info("audit: order placed",
		"order", o.OrderNumber, "user", o.User.Hex(), "total", o.TotalPrice, "payment", o.PaymentMethod)
}

// OrderStatusChanged writes the audit line for a lifecycle move.
func OrderStatusChanged(ctx context.Context, payload interface{}) {
	e, ok := payload.(services.OrderStatusChanged)
	if !ok || e.Order == nil {
		return
	}
	logger.WithCtx(ctx).Info("audit: order status",
		"order", e.Order.OrderNumber, "from", e.From, "to", e.To, "by", e.By.Hex())
}

func ReviewChanged(ctx context.Context, payload interface{}) {
	e, ok := payload.(services.ReviewChanged)
	if !ok || e.Review == nil {
		return
	}
	logger.WithCtx(ctx).Info("review changed",
		"review", e.Review.ID.Hex(), "product", e.Review.Product.Hex(), "action", e.Action)
}
