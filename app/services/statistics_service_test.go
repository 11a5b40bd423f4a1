package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomfood/storefront/app/repositories"
)

func TestParsePeriod(t *testing.T) {
	assert.Equal(t, Daily, ParsePeriod("daily"))
	assert.Equal(t, Yearly, ParsePeriod("yearly"))
	assert.Equal(t, Monthly, ParsePeriod(""))
	assert.Equal(t, Monthly, ParsePeriod("hourly"))
}

func TestPeriodWindows(t *testing.T) {
	cases := []struct {
		p      Period
		since  time.Time
		trend  time.Time
		bucket repositories.Bucket
	}{
		{Daily, fixedNow.AddDate(0, 0, -1), fixedNow.AddDate(0, 0, -30), repositories.ByDay},
		{Weekly, fixedNow.AddDate(0, 0, -7), fixedNow.AddDate(0, 0, -84), repositories.ByWeek},
		{Monthly, fixedNow.AddDate(0, -1, 0), fixedNow.AddDate(0, -12, 0), repositories.ByMonth},
		{Yearly, fixedNow.AddDate(-1, 0, 0), fixedNow.AddDate(-3, 0, 0), repositories.ByYear},
	}
	for _, tc := range cases {
		t.Run(string(tc.p), func(t *testing.T) {
			assert.Equal(t, tc.since, tc.p.Since(fixedNow))
			trend, bucket := tc.p.Trend(fixedNow)
			assert.Equal(t, tc.trend, trend)
			assert.Equal(t, tc.bucket, bucket)
		})
	}
}

func TestClampTopLimit(t *testing.T) {
	assert.Equal(t, 10, ClampTopLimit(0))
	assert.Equal(t, 10, ClampTopLimit(-3))
	assert.Equal(t, 7, ClampTopLimit(7))
	assert.Equal(t, 50, ClampTopLimit(500))
}

func TestStatisticsCompletion(t *testing.T) {
	stats := &fakeStats{statuses: []repositories.StatusCount{
		{Status: "delivered", Count: 2},
		{Status: "cancelled", Count: 1},
		{Status: "pending", Count: 3},
		{Status: "shipping", Count: 3},
	}}
	svc := NewStatisticsService(stats).WithClock(pinned)

	c, err := svc.Completion(context.Background(), Weekly)
	require.NoError(t, err)
	assert.Equal(t, Completion{
		Total: 9, Completed: 2, Cancelled: 1, Pending: 6,
		CompletionRate: 22.2, CancellationRate: 11.1,
	}, c)
	assert.Equal(t, []time.Time{fixedNow.AddDate(0, 0, -7)}, stats.since)
}

func TestStatisticsCompletion_Empty(t *testing.T) {
	c, err := NewStatisticsService(&fakeStats{}).Completion(context.Background(), Monthly)
	require.NoError(t, err)
	assert.Equal(t, Completion{}, c)
}

func TestStatisticsDashboard(t *testing.T) {
	stats := &fakeStats{
		counts: map[string]int64{
			"users": 40, "products": 25, "orders": 120, "reviews": 60,
			"orders:recent": 9, "users:recent": 4,
		},
		totals:   repositories.RevenueTotals{TotalRevenue: 5400000, AverageOrderValue: 90000},
		statuses: []repositories.StatusCount{{Status: "delivered", Count: 60}},
	}
	d, err := NewStatisticsService(stats).WithClock(pinned).Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Overview{
		TotalUsers: 40, TotalProducts: 25, TotalOrders: 120, TotalReviews: 60,
		TotalRevenue: 5400000, AverageOrderValue: 90000,
		RecentOrders: 9, NewUsers: 4,
	}, d.Overview)
	assert.Len(t, d.OrderStatusStats, 1)
	assert.Equal(t, []int{5}, stats.limits)
	assert.Contains(t, stats.countCalls, countCall{"orders", fixedNow.AddDate(0, 0, -7)})
	assert.Contains(t, stats.countCalls, countCall{"users", fixedNow.AddDate(0, 0, -30)})
}

func TestStatisticsSeriesWindows(t *testing.T) {
	stats := &fakeStats{}
	svc := NewStatisticsService(stats).WithClock(pinned)
	ctx := context.Background()

	_, err := svc.Revenue(ctx, Weekly)
	require.NoError(t, err)
	_, err = svc.NewUsers(ctx, Yearly)
	require.NoError(t, err)
	_, err = svc.TopProducts(ctx, Daily, 99)
	require.NoError(t, err)

	assert.Equal(t, []repositories.Bucket{repositories.ByWeek, repositories.ByYear}, stats.buckets)
	assert.Equal(t, []int{50}, stats.limits)
	assert.Equal(t, fixedNow.AddDate(0, 0, -1), stats.since[2])
}
