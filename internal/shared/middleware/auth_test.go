package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func adminHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}

func TestAuth(t *testing.T) {
	hash := adminHash(t, "correct-horse")

	tests := []struct {
		name           string
		passwordHash   string
		setupRequest   func(r *http.Request)
		expectedStatus int
	}{
		{
			name:         "Valid Password in Header",
			passwordHash: hash,
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer correct-horse")
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:         "Valid Password in Cookie",
			passwordHash: hash,
			setupRequest: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "admin_token", Value: "correct-horse"})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "No Credentials",
			passwordHash:   hash,
			setupRequest:   func(r *http.Request) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:         "Wrong Password",
			passwordHash: hash,
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer battery-staple")
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:         "Malformed Authorization Header",
			passwordHash: hash,
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "correct-horse")
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Auth Disabled With Empty Hash",
			passwordHash:   "",
			setupRequest:   func(r *http.Request) {},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			handler := Auth(tt.passwordHash)(next)

			req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
			tt.setupRequest(req)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.expectedStatus)
			}
		})
	}
}
