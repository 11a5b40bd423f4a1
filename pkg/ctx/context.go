// Package ctx provides a request context for storefront handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context:
//
//	func (pc *ProductController) Show(c *ctx.Context) {
//	    p, err := pc.svc.Get(c.Context(), c.Param("id"))
//	    if err != nil {
//	        c.Fail(err)
//	        return
//	    }
//	    c.Success(map[string]any{"product": p})
//	}
//
//	router.Get("/products/{id}", "products.show", ctx.Wrap(pc.Show))
package ctx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/nomfood/storefront/pkg/auth"
	"github.com/nomfood/storefront/pkg/bind"
	"github.com/nomfood/storefront/pkg/paginate"
	"github.com/nomfood/storefront/pkg/response"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// ─── Context ──────────────────────────────────────────────────────────────────

// Context wraps a request/response pair.
type Context struct {
	W     http.ResponseWriter
	R     *http.Request
	mu    sync.RWMutex
	store map[string]any
}

// pool recycles Context objects to reduce GC pressure.
var pool = sync.Pool{
	New: func() any { return &Context{store: make(map[string]any)} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	for k := range c.store {
		delete(c.store, k)
	}
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/orders/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// DefaultQuery returns a query-string value, or def if it is empty.
func (c *Context) DefaultQuery(key, def string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return def
}

// QueryInt parses a query value as int, returning def when absent or malformed.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

// QueryBool parses a query value; ok is false when the key is absent.
func (c *Context) QueryBool(key string) (value, ok bool) {
	raw, present := c.R.URL.Query()[key]
	if !present || len(raw) == 0 || raw[0] == "" {
		return false, false
	}
	return strings.EqualFold(raw[0], "true") || raw[0] == "1", true
}

// Page parses page/limit with the given default page size.
func (c *Context) Page(defaultLimit int) paginate.Params {
	return paginate.Parse(c.R.URL.Query(), defaultLimit)
}

// Header returns the value of a request header.
func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Principal returns the authenticated caller. Handlers mounted behind
// middleware.Authenticate can rely on ok being true.
func (c *Context) Principal() (auth.Principal, bool) {
	return auth.FromCtx(c.R.Context())
}

// ─── Per-request store ────────────────────────────────────────────────────────

// Set stores a value in the per-request key-value store.
func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	c.store[key] = val
	c.mu.Unlock()
}

// Get retrieves a value from the per-request store.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.store[key]
	c.mu.RUnlock()
	return v, ok
}

// GetString returns a string value from the store, or "" if absent/wrong type.
func (c *Context) GetString(key string) string {
	v, _ := c.Get(key)
	s, _ := v.(string)
	return s
}

// ─── Binding ──────────────────────────────────────────────────────────────────

// BindJSON decodes and validates the JSON body into dest. On failure it
// writes a 400 response and returns false.
//
//	var input CreateOrderInput
//	if !c.BindJSON(&input) {
//	    return // response already sent
//	}
func (c *Context) BindJSON(dest any) bool {
	if err := bind.Decode(c.R, dest); err != nil {
		c.Fail(err)
		return false
	}
	return true
}

// BindOptionalJSON is BindJSON for endpoints whose body may be omitted.
func (c *Context) BindOptionalJSON(dest any) bool {
	if err := bind.DecodeOptional(c.R, dest); err != nil {
		c.Fail(err)
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes v as a raw JSON response with the given status code.
func (c *Context) JSON(code int, v any) {
	c.W.Header().Set("Content-Type", "application/json")
	c.W.WriteHeader(code)
	json.NewEncoder(c.W).Encode(v) //nolint:errcheck
}

// Success sends {"success":true,"data":...}.
func (c *Context) Success(data any) { response.Success(c.W, data) }

// Message sends a 200 with a message and optional data.
func (c *Context) Message(message string, data any) { response.Message(c.W, message, data) }

// Created sends a 201 with a message and data.
func (c *Context) Created(message string, data any) { response.Created(c.W, message, data) }

// Paginated sends {<key>: items, pagination: meta, ...extra}.
func (c *Context) Paginated(key string, items any, meta paginate.Meta, extra map[string]any) {
	response.Paginated(c.W, key, items, meta, extra)
}

// Fail writes err through the apperr → status mapping.
func (c *Context) Fail(err error) { response.Fail(c.W, c.R, err) }

// Error sends a JSON error envelope with the given status and message.
func (c *Context) Error(code int, message string) { response.Error(c.W, code, message) }

// Errorf is Error with formatting.
func (c *Context) Errorf(code int, format string, args ...any) {
	response.Error(c.W, code, fmt.Sprintf(format, args...))
}
