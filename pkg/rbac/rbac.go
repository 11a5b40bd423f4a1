// Package rbac provides role-based access control middleware.
package rbac

import (
	"net/http"

	"github.com/nomfood/storefront/pkg/auth"
	"github.com/nomfood/storefront/pkg/middleware"
	"github.com/nomfood/storefront/pkg/response"
)

// HasRole returns middleware that allows access only to users with one of
// the given roles. Requires middleware.Authenticate to have already run.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			if !ok {
				response.Unauthorized(w, "")
				return
			}
			if !allowed[role] {
				response.Forbidden(w, "Bạn không có quyền truy cập chức năng này")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Admin allows only administrators.
func Admin(next http.Handler) http.Handler {
	return HasRole(auth.RoleAdmin)(next)
}

// Staff allows staff and administrators.
func Staff(next http.Handler) http.Handler {
	return HasRole(auth.RoleStaff, auth.RoleAdmin)(next)
}
