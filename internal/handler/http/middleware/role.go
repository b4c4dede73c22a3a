package middleware

import (
	"net/http"
	"slices"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll/internal/handler/http/response"
)

// RequireRole admits actors whose role is one of roles. It runs after
// AuthRequired.
func RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := auth.ActorFromContext(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if !slices.Contains(roles, actor.Role) {
				response.HandleError(w, auth.ErrInsufficientRole)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
