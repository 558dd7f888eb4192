package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"argentasync/internal/shared/auth"
)

// Auth guards the API with a single admin password verified against a bcrypt
// hash from configuration. The password travels as a bearer token. An empty
// hash disables the check entirely (local deployments).
func Auth(passwordHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if passwordHash == "" {
				next.ServeHTTP(w, r)
				return
			}

			password := extractBearer(r)
			if password == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if err := auth.VerifyPassword(passwordHash, password); err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		const prefix = "Bearer "
		if len(header) > len(prefix) && subtle.ConstantTimeCompare([]byte(header[:len(prefix)]), []byte(prefix)) == 1 {
			return strings.TrimSpace(header[len(prefix):])
		}
		return ""
	}

	if cookie, err := r.Cookie("admin_token"); err == nil {
		return cookie.Value
	}

	return ""
}
