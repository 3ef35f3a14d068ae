package mw

import (
	"context"
	"net/http"
	"strings"
)

type userIDKey struct{}

// UserHeader carries the caller's identity. Authentication happens at the
// edge (tunnel/proxy); the server only needs to know who the request is for.
const UserHeader = "X-User-ID"

// RequireUser rejects requests without an identity header and stores the
// user ID in the request context for handlers.
func RequireUser() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(UserHeader))
			if userID == "" {
				http.Error(w, "missing "+UserHeader+" header", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the identity stored by RequireUser, or "" when the route
// was not wrapped.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}
