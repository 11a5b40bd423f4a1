package app

import (
	"net/http"

	"github.com/nomfood/storefront/config"
	"github.com/nomfood/storefront/pkg/metrics"
	"github.com/nomfood/storefront/pkg/middleware"
	"github.com/nomfood/storefront/pkg/reqid"
	"github.com/nomfood/storefront/pkg/response"
	"github.com/nomfood/storefront/pkg/router"
)

// Handler builds the HTTP handler: the global middleware stack, /metrics
// and every route callback.
func (a *Application) Handler() http.Handler {
	return a.buildRouter().Handler()
}

func (a *Application) buildRouter() *router.Router {
	r := router.New()

	// outermost first; the access log needs the request ID in context
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.CORSOrigins())))
	r.Use(middleware.RateLimit(config.RateLimitMax(), config.RateLimitWindow()))

	r.Handle("/metrics", "metrics", metrics.Handler())

	for _, fn := range a.routesFns {
		fn(r)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Không tìm thấy đường dẫn")
	})
	return r
}
