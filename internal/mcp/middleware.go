package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const userIDKey contextKey = iota

// getUserID extracts the acting user ID from context.
func getUserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

// UserResolver resolves a user ID from a bearer token.
type UserResolver interface {
	ResolveUser(ctx context.Context, token string) (string, error)
}

// authMiddleware implements bearer token authentication as MCP middleware.
func authMiddleware(resolver UserResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Skip auth for protocol methods
			if method == "initialize" || method == "ping" {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("unauthorized: missing headers")
			}

			auth := extra.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				return nil, fmt.Errorf("unauthorized: missing bearer token")
			}

			userID, err := resolver.ResolveUser(ctx, token)
			if err != nil {
				return nil, fmt.Errorf("unauthorized: %w", err)
			}
			if userID == "" {
				return nil, fmt.Errorf("unauthorized: invalid bearer token")
			}

			ctx = context.WithValue(ctx, userIDKey, userID)
			return next(ctx, method, req)
		}
	}
}
