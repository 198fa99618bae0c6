package auth

import (
	"net/http"

	errors "github.com/Goutham-Raj07/shanandassociates-sub000/internal"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/transport"
)

// RequireAdmin gates routes that only accountants may call: creating payment
// obligations, confirming or rejecting settlements and recording offline
// payments. Expects AuthMiddleware to have run first.
func RequireAdmin(base *transport.BaseHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				base.WriteError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeUnauthorizedAccess))
				return
			}
			if !user.IsAdmin() {
				base.WriteError(w, errors.NewForbiddenError("admin access required", errors.ErrCodeUnauthorizedAccess))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
