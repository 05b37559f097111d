// Package middleware provides bearer-token authorization for the admin
// analytics endpoints.
package middleware

import (
	"net/http"
	"strings"
)

// TokenValidator validates a bearer token. Satisfied by the server's
// JWTService without an import cycle.
type TokenValidator interface {
	Validate(tokenString string) error
}

// RequireAuth validates the Authorization bearer token before passing the
// request through.
func RequireAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if err := validator.Validate(strings.TrimSpace(parts[1])); err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
