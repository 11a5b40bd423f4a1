package controllers

import (
	"context"

	"github.com/nomfood/storefront/app/repositories"
	"github.com/nomfood/storefront/app/services"
	"github.com/nomfood/storefront/pkg/ctx"
)

type statisticsService interface {
	Dashboard(ctx context.Context) (*services.Dashboard, error)
	Revenue(ctx context.Context, p services.Period) ([]repositories.RevenuePoint, error)
	NewUsers(ctx context.Context, p services.Period) ([]repositories.CountPoint, error)
	TopProducts(ctx context.Context, p services.Period, limit int) ([]repositories.TopProduct, error)
	CategoryRevenue(ctx context.Context, p services.Period) ([]repositories.CategoryRevenue, error)
	Completion(ctx context.Context, p services.Period) (services.Completion, error)
}

type StatisticsController struct {
	svc statisticsService
}

func NewStatisticsController(svc statisticsService) *StatisticsController {
	return &StatisticsController{svc: svc}
}

func period(c *ctx.Context) services.Period {
	return services.ParsePeriod(c.Query("period"))
}

func (sc *StatisticsController) Dashboard(c *ctx.Context) {
	d, err := sc.svc.Dashboard(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(d)
}

func (sc *StatisticsController) Revenue(c *ctx.Context) {
	p := period(c)
	series, err := sc.svc.Revenue(c.Context(), p)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"period": p, "revenue": nonNil(series)})
}

func (sc *StatisticsController) TopProducts(c *ctx.Context) {
	items, err := sc.svc.TopProducts(c.Context(), period(c), c.QueryInt("limit", 0))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"products": nonNil(items)})
}

func (sc *StatisticsController) CategoryRevenue(c *ctx.Context) {
	rows, err := sc.svc.CategoryRevenue(c.Context(), period(c))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"categories": nonNil(rows)})
}

func (sc *StatisticsController) NewUsers(c *ctx.Context) {
	series, err := sc.svc.NewUsers(c.Context(), period(c))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"users": nonNil(series)})
}

func (sc *StatisticsController) Completion(c *ctx.Context) {
	done, err := sc.svc.Completion(c.Context(), period(c))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"completion": done})
}

// nonNil keeps empty series as [] in JSON.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
