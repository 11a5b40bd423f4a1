package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/app/repositories"
)

// Period selects a reporting window.
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

const (
	defaultTopProducts = 10
	maxTopProducts     = 50
	dashboardTop       = 5
)

// ParsePeriod maps a query value to a Period. Anything unknown is monthly.
func ParsePeriod(s string) Period {
	switch p := Period(s); p {
	case Daily, Weekly, Monthly, Yearly:
		return p
	}
	return Monthly
}

// Since is the start of the snapshot window ending at now.
func (p Period) Since(now time.Time) time.Time {
	switch p {
	case Daily:
		return now.AddDate(0, 0, -1)
	case Weekly:
		return now.AddDate(0, 0, -7)
	case Yearly:
		return now.AddDate(-1, 0, 0)
	}
	return now.AddDate(0, -1, 0)
}

// Trend is the start and bucket size of the series window ending at now.
func (p Period) Trend(now time.Time) (time.Time, repositories.Bucket) {
	switch p {
	case Daily:
		return now.AddDate(0, 0, -30), repositories.ByDay
	case Weekly:
		return now.AddDate(0, 0, -84), repositories.ByWeek
	case Yearly:
		return now.AddDate(-3, 0, 0), repositories.ByYear
	}
	return now.AddDate(0, -12, 0), repositories.ByMonth
}

// Overview is the headline block of the dashboard.
type Overview struct {
	TotalUsers        int64   `json:"totalUsers"`
	TotalProducts     int64   `json:"totalProducts"`
	TotalOrders       int64   `json:"totalOrders"`
	TotalReviews      int64   `json:"totalReviews"`
	TotalRevenue      float64 `json:"totalRevenue"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	RecentOrders      int64   `json:"recentOrders"`
	NewUsers          int64   `json:"newUsers"`
}

// Dashboard is the admin landing report.
type Dashboard struct {
	Overview         Overview                   `json:"overview"`
	OrderStatusStats []repositories.StatusCount `json:"orderStatusStats"`
	TopProducts      []repositories.TopProduct  `json:"topProducts"`
}

// Completion summarises how orders in a window ended.
type Completion struct {
	Total            int64   `json:"total"`
	Completed        int64   `json:"completed"`
	Cancelled        int64   `json:"cancelled"`
	Pending          int64   `json:"pending"`
	CompletionRate   float64 `json:"completionRate"`
	CancellationRate float64 `json:"cancellationRate"`
}

// StatisticsService computes the read-only admin reports. Nothing is cached.
type StatisticsService struct {
	stats StatisticsStore
	now   Clock
}

func NewStatisticsService(stats StatisticsStore) *StatisticsService {
	return &StatisticsService{stats: stats, now: time.Now}
}

func (s *StatisticsService) WithClock(c Clock) *StatisticsService {
	s.now = c
	return s
}

func (s *StatisticsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := s.now()
	var (
		d   Dashboard
		err error
	)
	counts := []struct {
		dst        *int64
		collection string
		since      time.Time
	}{
		{&d.Overview.TotalUsers, repositories.UsersCollection, time.Time{}},
		{&d.Overview.TotalProducts, repositories.ProductsCollection, time.Time{}},
		{&d.Overview.TotalOrders, repositories.OrdersCollection, time.Time{}},
		{&d.Overview.TotalReviews, repositories.ReviewsCollection, time.Time{}},
		{&d.Overview.RecentOrders, repositories.OrdersCollection, now.AddDate(0, 0, -7)},
		{&d.Overview.NewUsers, repositories.UsersCollection, now.AddDate(0, 0, -30)},
	}
	for _, c := range counts {
		if *c.dst, err = s.stats.CountSince(ctx, c.collection, c.since); err != nil {
			return nil, err
		}
	}

	totals, err := s.stats.DeliveredRevenue(ctx)
	if err != nil {
		return nil, err
	}
	d.Overview.TotalRevenue = totals.TotalRevenue
	d.Overview.AverageOrderValue = totals.AverageOrderValue

	if d.OrderStatusStats, err = s.stats.StatusCounts(ctx, time.Time{}); err != nil {
		return nil, err
	}
	if d.TopProducts, err = s.stats.TopProducts(ctx, time.Time{}, dashboardTop); err != nil {
		return nil, err
	}
	return &d, nil
}

// Revenue returns the delivered revenue series for p.
func (s *StatisticsService) Revenue(ctx context.Context, p Period) ([]repositories.RevenuePoint, error) {
	since, bucket := p.Trend(s.now())
	return s.stats.RevenueSeries(ctx, since, bucket)
}

// NewUsers returns the sign-up series for p.
func (s *StatisticsService) NewUsers(ctx context.Context, p Period) ([]repositories.CountPoint, error) {
	since, bucket := p.Trend(s.now())
	return s.stats.NewUsers(ctx, since, bucket)
}

// ClampTopLimit bounds the top products limit to 1..50, defaulting to 10.
func ClampTopLimit(n int) int {
	switch {
	case n <= 0:
		return defaultTopProducts
	case n > maxTopProducts:
		return maxTopProducts
	}
	return n
}

func (s *StatisticsService) TopProducts(ctx context.Context, p Period, limit int) ([]repositories.TopProduct, error) {
	return s.stats.TopProducts(ctx, p.Since(s.now()), ClampTopLimit(limit))
}

func (s *StatisticsService) CategoryRevenue(ctx context.Context, p Period) ([]repositories.CategoryRevenue, error) {
	return s.stats.CategoryRevenue(ctx, p.Since(s.now()))
}

// Completion splits orders created in the window into delivered, cancelled
// and everything still open.
func (s *StatisticsService) Completion(ctx context.Context, p Period) (Completion, error) {
	rows, err := s.stats.StatusCounts(ctx, p.Since(s.now()))
	if err != nil {
		return Completion{}, err
	}
	var c Completion
	for _, r := range rows {
		c.Total += r.Count
		switch r.Status {
		case models.StatusDelivered:
			c.Completed = r.Count
		case models.StatusCancelled:
			c.Cancelled = r.Count
		default:
			c.Pending += r.Count
		}
	}
	c.CompletionRate = percent(c.Completed, c.Total)
	c.CancellationRate = percent(c.Cancelled, c.Total)
	return c, nil
}

func percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	v, _ := decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(total), 8).
		Round(1).
		Float64()
	return v
}
