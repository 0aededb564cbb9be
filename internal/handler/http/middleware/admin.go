package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/inout-app/inout-backend-go/internal/domain/auth"
	"github.com/inout-app/inout-backend-go/internal/domain/user"
	"github.com/inout-app/inout-backend-go/internal/handler/http/response"
)

func AdminOnly(next http.Handler) http.Handler {
	return RequireRole(user.RoleAdmin, user.ErrAdminRequired)(next)
}

func EmployeeOnly(next http.Handler) http.Handler {
	return RequireRole(user.RoleEmployee, user.ErrNotAnEmployee)(next)
}

// RequireRole rejects tokens whose role claim is not role with denied.
func RequireRole(role user.Role, denied error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			roleStr, ok := claims["role"].(string)
			if !ok || user.Role(roleStr) != role {
				response.HandleError(w, denied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
