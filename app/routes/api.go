package routes

import (
	"github.com/nomfood/storefront/pkg/ctx"
	"github.com/nomfood/storefront/pkg/middleware"
	"github.com/nomfood/storefront/pkg/rbac"
	"github.com/nomfood/storefront/pkg/router"
)

// API returns the route registration for the storefront's REST surface.
func API(c *Container) func(r *router.Router) {
	return func(r *router.Router) {
		authn := middleware.Authenticate(c.Auth.LoadPrincipal)

		r.Get("/health", "health", ctx.Wrap(c.health.Show))

		api := r.Group("/api")
		api.Get("/health", "api.health", ctx.Wrap(c.health.Show))
		api.Get("/categories", "categories", ctx.Wrap(c.products.Categories))

		// ── Auth ─────────────────────────────────────────────────────────
		api.Post("/auth/register", "auth.register", ctx.Wrap(c.auth.Register))
		api.Post("/auth/login", "auth.login", ctx.Wrap(c.auth.Login))
		api.Get("/auth/me", "auth.me", ctx.Wrap(c.auth.Me), authn)

		// ── Products ─────────────────────────────────────────────────────
		products := api.Group("/products")
		products.Get("/", "products.index", ctx.Wrap(c.products.Index))
		products.Get("/featured", "products.featured", ctx.Wrap(c.products.Featured))
		products.Get("/{id}", "products.show", ctx.Wrap(c.products.Show))

		productAdmin := products.Group("", authn, rbac.Admin)
		productAdmin.Post("/", "products.store", ctx.Wrap(c.products.Store))
		productAdmin.Put("/{id}", "products.update", ctx.Wrap(c.products.Update))
		productAdmin.Delete("/{id}", "products.destroy", ctx.Wrap(c.products.Destroy))

		// ── Orders ───────────────────────────────────────────────────────
		orders := api.Group("/orders", authn)
		orders.Post("/", "orders.store", ctx.Wrap(c.orders.Store))
		orders.Get("/my-orders", "orders.mine", ctx.Wrap(c.orders.Mine))
		orders.Get("/{id}", "orders.show", ctx.Wrap(c.orders.Show))
		orders.Put("/{id}/cancel", "orders.cancel", ctx.Wrap(c.orders.Cancel))
		orders.Get("/", "orders.index", ctx.Wrap(c.orders.Index), rbac.Staff)
		orders.Put("/{id}/status", "orders.status", ctx.Wrap(c.orders.UpdateStatus), rbac.Staff)

		// ── Reviews ──────────────────────────────────────────────────────
		reviews := api.Group("/reviews")
		reviews.Get("/product/{productId}", "reviews.product", ctx.Wrap(c.reviews.ForProduct))
		reviews.Post("/", "reviews.store", ctx.Wrap(c.reviews.Store), authn)

		moderation := reviews.Group("", authn, rbac.Staff)
		moderation.Get("/", "reviews.index", ctx.Wrap(c.reviews.Index))
		moderation.Put("/{id}/approve", "reviews.approve", ctx.Wrap(c.reviews.Approve))
		moderation.Put("/{id}/reject", "reviews.reject", ctx.Wrap(c.reviews.Reject))
		moderation.Post("/{id}/reply", "reviews.reply", ctx.Wrap(c.reviews.Reply))
		moderation.Delete("/{id}", "reviews.destroy", ctx.Wrap(c.reviews.Destroy))

		// ── Users ────────────────────────────────────────────────────────
		users := api.Group("/users", authn, rbac.Admin)
		users.Get("/", "users.index", ctx.Wrap(c.users.Index))
		users.Get("/stats", "users.stats", ctx.Wrap(c.users.Stats))
		users.Get("/{id}", "users.show", ctx.Wrap(c.users.Show))
		users.Put("/{id}", "users.update", ctx.Wrap(c.users.Update))
		users.Put("/{id}/role", "users.role", ctx.Wrap(c.users.SetRole))
		users.Put("/{id}/status", "users.status", ctx.Wrap(c.users.SetStatus))
		users.Delete("/{id}", "users.destroy", ctx.Wrap(c.users.Destroy))

		// ── Banners ──────────────────────────────────────────────────────
		banners := api.Group("/banners")
		banners.Get("/", "banners.index", ctx.Wrap(c.banners.Index))
		banners.Get("/active", "banners.active", ctx.Wrap(c.banners.Active))
		banners.Post("/{id}/click", "banners.click", ctx.Wrap(c.banners.Click))

		bannerAdmin := banners.Group("", authn, rbac.Admin)
		bannerAdmin.Put("/reorder", "banners.reorder", ctx.Wrap(c.banners.Reorder))
		bannerAdmin.Get("/{id}", "banners.show", ctx.Wrap(c.banners.Show))
		bannerAdmin.Post("/", "banners.store", ctx.Wrap(c.banners.Store))
		bannerAdmin.Put("/{id}", "banners.update", ctx.Wrap(c.banners.Update))
		bannerAdmin.Put("/{id}/toggle", "banners.toggle", ctx.Wrap(c.banners.Toggle))
		bannerAdmin.Delete("/{id}", "banners.destroy", ctx.Wrap(c.banners.Destroy))

		// ── Statistics ───────────────────────────────────────────────────
		stats := api.Group("/statistics", authn, rbac.Staff)
		stats.Get("/dashboard", "statistics.dashboard", ctx.Wrap(c.statistics.Dashboard))
		stats.Get("/revenue", "statistics.revenue", ctx.Wrap(c.statistics.Revenue))
		stats.Get("/top-products", "statistics.top_products", ctx.Wrap(c.statistics.TopProducts))
		stats.Get("/category-revenue", "statistics.category_revenue", ctx.Wrap(c.statistics.CategoryRevenue))
		stats.Get("/new-users", "statistics.new_users", ctx.Wrap(c.statistics.NewUsers))
		stats.Get("/order-completion", "statistics.order_completion", ctx.Wrap(c.statistics.Completion))

		api.Post("/uploads", "uploads.store", ctx.Wrap(c.uploads.Store), authn, rbac.Staff)
	}
}
