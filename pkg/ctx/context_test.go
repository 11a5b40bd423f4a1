package ctx_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nomfood/storefront/pkg/apperr"
	"github.com/nomfood/storefront/pkg/auth"
	appctx "github.com/nomfood/storefront/pkg/ctx"
)

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) {
		c.Success(map[string]any{"id": 1})
	})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
}

func TestParamThroughChi(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/orders/{id}", appctx.Wrap(func(c *appctx.Context) {
		c.JSON(http.StatusOK, map[string]string{"id": c.Param("id")})
	}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/abc", nil))
	assert.Contains(t, rec.Body.String(), `"id":"abc"`)
}

func TestQueryHelpers(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/?page=2&limit=5&available=false&n=x", nil)
	appctx.Wrap(func(c *appctx.Context) {
		p := c.Page(12)
		assert.Equal(t, 2, p.Page)
		assert.Equal(t, 5, p.Limit)

		v, ok := c.QueryBool("available")
		assert.True(t, ok)
		assert.False(t, v)
		_, ok = c.QueryBool("missing")
		assert.False(t, ok)

		assert.Equal(t, 9, c.QueryInt("n", 9))
		assert.Equal(t, "def", c.DefaultQuery("q", "def"))
	})(rec, req)
}

func TestBindJSON(t *testing.T) {
	type input struct {
		Email string `json:"email" validate:"required,email"`
	}

	t.Run("valid", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.vn"}`))
		appctx.Wrap(func(c *appctx.Context) {
			var in input
			require.True(t, c.BindJSON(&in))
			assert.Equal(t, "a@b.vn", in.Email)
		})(rec, req)
	})

	t.Run("invalid", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope"}`))
		appctx.Wrap(func(c *appctx.Context) {
			var in input
			assert.False(t, c.BindJSON(&in))
		})(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"email"`)
	})

	t.Run("malformed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		appctx.Wrap(func(c *appctx.Context) {
			var in input
			assert.False(t, c.BindJSON(&in))
		})(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestFailAndPrincipal(t *testing.T) {
	rec := httptest.NewRecorder()
	p := auth.Principal{ID: primitive.NewObjectID(), Role: auth.RoleUser}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), p))

	appctx.Wrap(func(c *appctx.Context) {
		got, ok := c.Principal()
		require.True(t, ok)
		assert.Equal(t, p.ID, got.ID)
		c.Fail(apperr.Forbidden("Không có quyền"))
	})(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) { c.Fail(errors.New("x")) })(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSetAndGet(t *testing.T) {
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) {
		c.Set("k", "v")
		assert.Equal(t, "v", c.GetString("k"))
		assert.Equal(t, "", c.GetString("missing"))
	})(rec, httptest.NewRequest(http.MethodGet, "/", nil))
}
