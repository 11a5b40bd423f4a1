// Package controllers maps HTTP requests onto the storefront services.
// Handlers use the pkg/ctx request context and translate every error
// through response.Fail.
package controllers

import (
	"strconv"

	"github.com/nomfood/storefront/pkg/auth"
	"github.com/nomfood/storefront/pkg/ctx"
)

// Default page sizes per resource.
const (
	productPageSize = 12
	reviewPageSize  = 12
	orderPageSize   = 10
	userPageSize    = 10
)

// floatQuery parses an optional numeric query value.
func floatQuery(c *ctx.Context, key string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// boolQuery parses an optional true/false query value.
func boolQuery(c *ctx.Context, key string) *bool {
	v, ok := c.QueryBool(key)
	if !ok {
		return nil
	}
	return &v
}

// principal is the authenticated caller. Routes using it sit behind
// middleware.Authenticate.
func principal(c *ctx.Context) auth.Principal {
	p, _ := c.Principal()
	return p
}
