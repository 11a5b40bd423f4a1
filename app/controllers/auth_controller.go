package controllers

import (
	"context"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/app/services"
	"github.com/nomfood/storefront/pkg/auth"
	"github.com/nomfood/storefront/pkg/ctx"
)

type authService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.Session, error)
	Login(ctx context.Context, in services.LoginInput) (*services.Session, error)
	Me(ctx context.Context, p auth.Principal) (*models.User, error)
}

type AuthController struct {
	svc authService
}

func NewAuthController(svc authService) *AuthController {
	return &AuthController{svc: svc}
}

func (ac *AuthController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}
	sess, err := ac.svc.Register(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created("Đăng ký thành công", sess)
}

func (ac *AuthController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.BindJSON(&in) {
		return
	}
	sess, err := ac.svc.Login(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message("Đăng nhập thành công", sess)
}

func (ac *AuthController) Me(c *ctx.Context) {
	u, err := ac.svc.Me(c.Context(), principal(c))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"user": u})
}
