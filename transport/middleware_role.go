package transport

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/muhammadheryan/crm/constant"
	utilsContext "github.com/muhammadheryan/crm/utils/context"
	"github.com/muhammadheryan/crm/utils/errors"
)

// RequireRole only lets callers with the given role through. It must run
// after AuthMiddleware.
func RequireRole(role constant.Role) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := utilsContext.GetRole(r.Context())
			if !ok {
				writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
				return
			}
			if got != role {
				writeError(w, errors.SetCustomError(constant.ErrForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
