package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type testResolver struct {
	tokenToUser map[string]string
	err         error
}

func (r *testResolver) ResolveUser(_ context.Context, token string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	userID, ok := r.tokenToUser[token]
	if !ok {
		return "", ErrUnauthorized
	}
	return userID, nil
}

func TestAuthMiddleware(t *testing.T) {
	resolver := &testResolver{tokenToUser: map[string]string{"token": "user1"}}

	handler := AuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "user1", userID)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	resolver := &testResolver{tokenToUser: map[string]string{"token": "user1"}}

	handler := AuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_Invalid(t *testing.T) {
	resolver := &testResolver{err: errors.New("invalid")}

	handler := AuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
