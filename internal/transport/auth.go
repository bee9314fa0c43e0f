package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

type userKey struct{}

// UserResolver resolves an acting user ID from a bearer token.
type UserResolver interface {
	ResolveUser(ctx context.Context, token string) (string, error)
}

// UserFromContext returns the authenticated user ID from context, if present.
func UserFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userKey{}).(string)
	return userID, ok
}

// WithUser returns a context carrying the acting user ID. Exposed for tests.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// AuthMiddleware enforces bearer token authentication.
func AuthMiddleware(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			userID, err := resolver.ResolveUser(r.Context(), token)
			if err != nil || userID == "" {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID)))
		})
	}
}
