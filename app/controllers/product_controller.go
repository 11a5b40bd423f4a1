package controllers

import (
	"context"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/app/repositories"
	"github.com/nomfood/storefront/app/services"
	"github.com/nomfood/storefront/pkg/ctx"
)

type productService interface {
	List(ctx context.Context, q repositories.ProductQuery) (services.CatalogPage, error)
	Categories(ctx context.Context) ([]string, error)
	Featured(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, in services.ProductInput) (*models.Product, error)
	Update(ctx context.Context, id string, in services.ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

type ProductController struct {
	svc productService
}

func NewProductController(svc productService) *ProductController {
	return &ProductController{svc: svc}
}

// Index lists the catalogue with filters, sort and the category options.
func (pc *ProductController) Index(c *ctx.Context) {
	q := repositories.ProductQuery{
		Category:  c.Query("category"),
		Available: boolQuery(c, "available"),
		Search:    c.Query("search"),
		MinPrice:  floatQuery(c, "minPrice"),
		MaxPrice:  floatQuery(c, "maxPrice"),
		Sort:      c.Query("sort"),
		Page:      c.Page(productPageSize),
	}
	page, err := pc.svc.List(c.Context(), q)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated("products", page.Items, page.Meta, map[string]any{"categories": page.Categories})
}

func (pc *ProductController) Categories(c *ctx.Context) {
	cats, err := pc.svc.Categories(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"categories": cats})
}

func (pc *ProductController) Featured(c *ctx.Context) {
	items, err := pc.svc.Featured(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"products": items})
}

func (pc *ProductController) Show(c *ctx.Context) {
	p, err := pc.svc.Get(c.Context(), c.Param("id"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"product": p})
}

func (pc *ProductController) Store(c *ctx.Context) {
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := pc.svc.Create(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created("Tạo sản phẩm thành công", map[string]any{"product": p})
}

func (pc *ProductController) Update(c *ctx.Context) {
	var in services.ProductPatch
	if !c.BindJSON(&in) {
		return
	}
	p, err := pc.svc.Update(c.Context(), c.Param("id"), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message("Cập nhật sản phẩm thành công", map[string]any{"product": p})
}

func (pc *ProductController) Destroy(c *ctx.Context) {
	if err := pc.svc.Delete(c.Context(), c.Param("id")); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Xóa sản phẩm thành công", nil)
}
