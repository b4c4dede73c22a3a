package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired admits verified access tokens and attaches the token's actor
// to the request context for audit attribution.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if tokenType, ok := claims["type"].(string); !ok || tokenType != "access" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			actor, err := auth.ActorFromContext(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
		}
		return http.HandlerFunc(hfn)
	}
}
