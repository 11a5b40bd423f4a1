package controllers

import (
	"context"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/app/services"
	"github.com/nomfood/storefront/pkg/ctx"
)

type bannerService interface {
	List(ctx context.Context, active *bool) ([]models.Banner, error)
	Active(ctx context.Context) ([]models.Banner, error)
	View(ctx context.Context, banners []models.Banner)
	Get(ctx context.Context, id string) (*models.Banner, error)
	Create(ctx context.Context, in services.BannerInput) (*models.Banner, error)
	Update(ctx context.Context, id string, p services.BannerPatch) (*models.Banner, error)
	Delete(ctx context.Context, id string) error
	Toggle(ctx context.Context, id string) (*models.Banner, error)
	Reorder(ctx context.Context, in services.ReorderInput) ([]models.Banner, error)
	Click(ctx context.Context, id string) error
}

type BannerController struct {
	svc bannerService
}

func NewBannerController(svc bannerService) *BannerController {
	return &BannerController{svc: svc}
}

func (bc *BannerController) Index(c *ctx.Context) {
	banners, err := bc.svc.List(c.Context(), boolQuery(c, "isActive"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"banners": banners})
}

// Active serves the storefront carousel and counts the impressions.
func (bc *BannerController) Active(c *ctx.Context) {
	banners, err := bc.svc.Active(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	bc.svc.View(c.Context(), banners)
	c.Success(map[string]any{"banners": banners})
}

func (bc *BannerController) Show(c *ctx.Context) {
	b, err := bc.svc.Get(c.Context(), c.Param("id"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"banner": b})
}

func (bc *BannerController) Store(c *ctx.Context) {
	var in services.BannerInput
	if !c.BindJSON(&in) {
		return
	}
	b, err := bc.svc.Create(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created("Tạo banner thành công", map[string]any{"banner": b})
}

func (bc *BannerController) Update(c *ctx.Context) {
	var in services.BannerPatch
	if !c.BindJSON(&in) {
		return
	}
	b, err := bc.svc.Update(c.Context(), c.Param("id"), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message("Cập nhật banner thành công", map[string]any{"banner": b})
}

func (bc *BannerController) Destroy(c *ctx.Context) {
	if err := bc.svc.Delete(c.Context(), c.Param("id")); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Xóa banner thành công", nil)
}

func (bc *BannerController) Toggle(c *ctx.Context) {
	b, err := bc.svc.Toggle(c.Context(), c.Param("id"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message(services.ToggleMessage(b), map[string]any{"banner": b})
}

func (bc *BannerController) Reorder(c *ctx.Context) {
	var in services.ReorderInput
	if !c.BindJSON(&in) {
		return
	}
	banners, err := bc.svc.Reorder(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message("Sắp xếp banner thành công", map[string]any{"banners": banners})
}

func (bc *BannerController) Click(c *ctx.Context) {
	if err := bc.svc.Click(c.Context(), c.Param("id")); err != nil {
		c.Fail(err)
		return
	}
	c.Success(nil)
}
