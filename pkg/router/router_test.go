package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestGroupMiddlewareAndNames(t *testing.T) {
	r := New()
	var calls []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				calls = append(calls, name)
				next.ServeHTTP(w, req)
			})
		}
	}

	api := r.Group("/api", tag("api"))
	orders := api.Group("orders", tag("auth"))
	orders.Put("/{id}/cancel", "orders.cancel", ok, tag("route"))
	orders.Get("/my-orders", "orders.mine", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/orders/42/cancel", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"api", "auth", "route"}, calls)

	path, found := r.Path("orders.cancel")
	require.True(t, found)
	assert.Equal(t, "/api/orders/{id}/cancel", path)

	url, err := r.URL("orders.cancel", map[string]string{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "/api/orders/42/cancel", url)

	_, err = r.URL("orders.cancel", nil)
	assert.Error(t, err)
}

func TestRoutesListing(t *testing.T) {
	r := New()
	r.Delete("/b", "b.delete", ok)
	r.Get("/b", "b.index", ok)
	r.Post("/a", "", ok)

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, RouteInfo{Method: http.MethodPost, Path: "/a"}, routes[0])
	assert.Equal(t, http.MethodDelete, routes[1].Method)
	assert.Equal(t, http.MethodGet, routes[2].Method)
}
