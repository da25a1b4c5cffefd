package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/avelar/ghostwriter-backend/internal/auth"
)

// UserIDKey is the request-context key under which RequireAuth stores the
// authenticated user id.
const UserIDKey = "user_id"

// RequireAuth validates the Authorization bearer token and injects the
// user id into the request context. Expired and invalid tokens produce the
// same 401 so callers learn nothing about why verification failed.
func RequireAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
				return
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID extracts the authenticated user id set by RequireAuth.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(UserIDKey).(string)
	return id
}
