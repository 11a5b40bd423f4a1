package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/pkg/apperr"
)

func TestBannerCreate(t *testing.T) {
	ctx := context.Background()
	banners := newFakeBanners(&models.Banner{Title: "Khai trương", Order: 3, IsActive: true})
	svc := NewBannerService(banners).WithClock(pinned)

	b, err := svc.Create(ctx, BannerInput{Title: "Giảm 20%", Image: "/img/sale.jpg"})
	require.NoError(t, err)
	assert.Equal(t, 4, b.Order)
	assert.Equal(t, "#", b.Link)
	assert.Equal(t, "Xem thêm", b.ButtonText)
	assert.Equal(t, "all", b.TargetAudience)
	assert.Equal(t, "#ffffff", b.BackgroundColor)
	assert.Equal(t, "#000000", b.TextColor)
	assert.True(t, b.IsActive)
	require.NotNil(t, b.StartDate)
	assert.Equal(t, fixedNow, *b.StartDate)

	_, err = svc.Create(ctx, BannerInput{Title: "Trùng", Image: "/img/x.jpg", Order: 3})
	require.Error(t, err)
	assert.Equal(t, msgBannerOrder, message(err))
}

func TestBannerUpdate_OrderExcludesSelf(t *testing.T) {
	ctx := context.Background()
	a := &models.Banner{Title: "A", Order: 1}
	b := &models.Banner{Title: "B", Order: 2}
	svc := NewBannerService(newFakeBanners(a, b))

	got, err := svc.Update(ctx, a.ID.Hex(), BannerPatch{Order: ptr(1), Title: ptr("A2")})
	require.NoError(t, err)
	assert.Equal(t, "A2", got.Title)

	_, err = svc.Update(ctx, a.ID.Hex(), BannerPatch{Order: ptr(2)})
	assert.Equal(t, msgBannerOrder, message(err))

	got, err = svc.Update(ctx, a.ID.Hex(), BannerPatch{Order: ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, 5, got.Order)
}

func TestBannerActive_RespectsWindow(t *testing.T) {
	past := fixedNow.AddDate(0, 0, -1)
	future := fixedNow.AddDate(0, 0, 1)
	live := &models.Banner{Title: "live", IsActive: true, StartDate: &past, EndDate: &future, Order: 1}
	banners := newFakeBanners(
		live,
		&models.Banner{Title: "off", IsActive: false, Order: 2},
		&models.Banner{Title: "later", IsActive: true, StartDate: &future, Order: 3},
		&models.Banner{Title: "over", IsActive: true, EndDate: &past, Order: 4},
	)
	svc := NewBannerService(banners).WithClock(pinned)

	got, err := svc.Active(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "live", got[0].Title)

	svc.View(context.Background(), got)
	assert.Equal(t, 1, banners.items[live.ID].ViewCount)
}

func TestBannerToggleAndClick(t *testing.T) {
	ctx := context.Background()
	b := &models.Banner{Title: "x", IsActive: true}
	banners := newFakeBanners(b)
	svc := NewBannerService(banners)

	got, err := svc.Toggle(ctx, b.ID.Hex())
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, "Ẩn banner thành công", ToggleMessage(got))

	require.NoError(t, svc.Click(ctx, b.ID.Hex()))
	assert.Equal(t, 1, banners.items[b.ID].ClickCount)

	err = svc.Click(ctx, primitive.NewObjectID().Hex())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestBannerReorder(t *testing.T) {
	ctx := context.Background()
	a := &models.Banner{Title: "A", Order: 1}
	b := &models.Banner{Title: "B", Order: 2}
	svc := NewBannerService(newFakeBanners(a, b))

	_, err := svc.Reorder(ctx, ReorderInput{})
	assert.Equal(t, msgInvalidData, message(err))

	_, err = svc.Reorder(ctx, ReorderInput{Banners: []ReorderItem{{ID: "nope", Order: 1}}})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	got, err := svc.Reorder(ctx, ReorderInput{Banners: []ReorderItem{
		{ID: a.ID.Hex(), Order: 2},
		{ID: b.ID.Hex(), Order: 1},
	}})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Title)
	assert.Equal(t, "A", got[1].Title)
}
