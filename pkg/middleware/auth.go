package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/nomfood/storefront/pkg/apperr"
	"github.com/nomfood/storefront/pkg/auth"
	"github.com/nomfood/storefront/pkg/response"
)

// PrincipalLoader resolves the user named by a token. It returns an
// Unauthenticated or NotFound apperr for missing or deactivated accounts.
type PrincipalLoader func(ctx context.Context, userID string) (auth.Principal, error)

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Authenticate verifies the Bearer JWT, loads the user through load and
// stores the resulting auth.Principal in the request context.
func Authenticate(load PrincipalLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				response.Unauthorized(w, "Không có token, truy cập bị từ chối")
				return
			}

			claims, err := auth.ValidateToken(token)
			if err != nil {
				response.Unauthorized(w, "Token không hợp lệ")
				return
			}

			p, err := load(r.Context(), claims.UserID)
			if err != nil {
				var ae *apperr.Error
				if errors.As(err, &ae) && ae.Kind != apperr.KindInternal {
					response.Unauthorized(w, ae.Message)
					return
				}
				response.Fail(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// RoleFromCtx returns the authenticated caller's role.
func RoleFromCtx(r *http.Request) (string, bool) {
	p, ok := auth.FromCtx(r.Context())
	return p.Role, ok
}

// UserIDFromCtx returns the authenticated caller's id as hex.
func UserIDFromCtx(r *http.Request) (string, bool) {
	p, ok := auth.FromCtx(r.Context())
	if !ok {
		return "", false
	}
	return p.ID.Hex(), true
}
