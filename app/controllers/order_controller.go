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

type orderService interface {
	Create(ctx context.Context, user auth.Principal, in services.CreateOrderInput) (*models.Order, error)
	Get(ctx context.Context, id string, actor auth.Principal) (*models.Order, error)
	ListMine(ctx context.Context, user auth.Principal, p paginate.Params) (paginate.Page[models.Order], error)
	ListAll(ctx context.Context, q repositories.OrderQuery) (paginate.Page[models.OrderView], error)
	UpdateStatus(ctx context.Context, id string, in services.UpdateStatusInput, actor auth.Principal) (*models.Order, error)
	Cancel(ctx context.Context, id, reason string, actor auth.Principal) (*models.Order, error)
}

type OrderController struct {
	svc orderService
}

func NewOrderController(svc orderService) *OrderController {
	return &OrderController{svc: svc}
}

func (oc *OrderController) Store(c *ctx.Context) {
	var in services.CreateOrderInput
	if !c.BindJSON(&in) {
		return
	}
	o, err := oc.svc.Create(c.Context(), principal(c), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created("Đặt hàng thành công", map[string]any{"order": o})
}

func (oc *OrderController) Mine(c *ctx.Context) {
	page, err := oc.svc.ListMine(c.Context(), principal(c), c.Page(orderPageSize))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated("orders", page.Items, page.Meta, nil)
}

func (oc *OrderController) Show(c *ctx.Context) {
	o, err := oc.svc.Get(c.Context(), c.Param("id"), principal(c))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"order": o})
}

// Index lists every order for staff, filtered by status and a search over
// order number and recipient.
func (oc *OrderController) Index(c *ctx.Context) {
	q := repositories.OrderQuery{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   c.Page(orderPageSize),
	}
	page, err := oc.svc.ListAll(c.Context(), q)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated("orders", page.Items, page.Meta, nil)
}

func (oc *OrderController) UpdateStatus(c *ctx.Context) {
	var in services.UpdateStatusInput
	if !c.BindJSON(&in) {
		return
	}
	o, err := oc.svc.UpdateStatus(c.Context(), c.Param("id"), in, principal(c))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message("Cập nhật trạng thái đơn hàng thành công", map[string]any{"order": o})
}

type cancelInput struct {
	Reason string `json:"reason" validate:"max=500"`
}

func (oc *OrderController) Cancel(c *ctx.Context) {
	var in cancelInput
	if !c.BindOptionalJSON(&in) {
		return
	}
	o, err := oc.svc.Cancel(c.Context(), c.Param("id"), in.Reason, principal(c))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message("Hủy đơn hàng thành công", map[string]any{"order": o})
}
