package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/inout-app/inout-backend-go/internal/domain/auth"
	"github.com/inout-app/inout-backend-go/internal/handler/http/response"
	"github.com/inout-app/inout-backend-go/internal/pkg/jwt"
)

// AuthRequired accepts only verified access tokens. Refresh and stream
// tokens are signed with the same key and must not open the API.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		if token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		tokenType, ok := claims["type"].(string)
		if !ok || tokenType != jwt.TokenTypeAccess {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if uid, ok := claims["user_id"].(string); !ok || uid == "" {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// UserID returns the user_id claim of the verified token.
func UserID(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if userID, ok := claims["user_id"].(string); ok {
		return userID
	}
	return ""
}
