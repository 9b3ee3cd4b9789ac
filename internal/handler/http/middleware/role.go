package middleware

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// RequireRole lets the request through when the role claim is one of roles.
func RequireRole(roles ...jwt.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Forbidden(w, "Insufficient permissions")
				return
			}

			roleStr, ok := claims["role"].(string)
			if !ok || !slices.Contains(roles, jwt.Role(roleStr)) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: role '%s' not allowed", roleStr))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
