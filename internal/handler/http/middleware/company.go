package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type companyKey struct{}

// RequireCompany copies the company_id claim into the request context.
// Every repository read is scoped by it.
func RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, "company_id claim is missing or invalid")
			return
		}

		companyID, ok := claims["company_id"].(string)
		if !ok || companyID == "" {
			response.Unauthorized(w, "company_id claim is missing or invalid")
			return
		}

		ctx := context.WithValue(r.Context(), companyKey{}, companyID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CompanyID returns the company set by RequireCompany.
func CompanyID(ctx context.Context) string {
	id, _ := ctx.Value(companyKey{}).(string)
	return id
}
