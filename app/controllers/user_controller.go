package controllers

import (
	"context"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/app/repositories"
	"github.com/nomfood/storefront/app/services"
	"github.com/nomfood/storefront/pkg/ctx"
	"github.com/nomfood/storefront/pkg/paginate"
)

type userService interface {
	List(ctx context.Context, q repositories.UserQuery) (paginate.Page[models.User], error)
	Stats(ctx context.Context) (services.UserStats, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, in services.UserUpdateInput) (*models.User, error)
	SetRole(ctx context.Context, id, role string) (*models.User, error)
	SetStatus(ctx context.Context, id string, active bool) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

type UserController struct {
	svc userService
}

func NewUserController(svc userService) *UserController {
	return &UserController{svc: svc}
}

func (uc *UserController) Index(c *ctx.Context) {
	q := repositories.UserQuery{
		Role:   c.Query("role"),
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   c.Page(userPageSize),
	}
	page, err := uc.svc.List(c.Context(), q)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated("users", page.Items, page.Meta, nil)
}

func (uc *UserController) Stats(c *ctx.Context) {
	st, err := uc.svc.Stats(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(st)
}

func (uc *UserController) Show(c *ctx.Context) {
	u, err := uc.svc.Get(c.Context(), c.Param("id"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"user": u})
}

func (uc *UserController) Update(c *ctx.Context) {
	var in services.UserUpdateInput
	if !c.BindJSON(&in) {
		return
	}
	u, err := uc.svc.Update(c.Context(), c.Param("id"), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message("Cập nhật người dùng thành công", map[string]any{"user": u})
}

func (uc *UserController) SetRole(c *ctx.Context) {
	var in services.RoleInput
	if !c.BindJSON(&in) {
		return
	}
	u, err := uc.svc.SetRole(c.Context(), c.Param("id"), in.Role)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message("Cập nhật vai trò thành công", map[string]any{"user": u})
}

func (uc *UserController) SetStatus(c *ctx.Context) {
	var in services.StatusInput
	if !c.BindJSON(&in) {
		return
	}
	u, err := uc.svc.SetStatus(c.Context(), c.Param("id"), *in.IsActive)
	if err != nil {
		c.Fail(err)
		return
	}
	msg := "Khóa tài khoản thành công"
	if u.IsActive {
		msg = "Kích hoạt tài khoản thành công"
	}
	c.Message(msg, map[string]any{"user": u})
}

func (uc *UserController) Destroy(c *ctx.Context) {
	if err := uc.svc.Delete(c.Context(), c.Param("id")); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Xóa người dùng thành công", nil)
}
