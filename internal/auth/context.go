package auth

import (
	"context"

	"github.com/gin-gonic/gin"
)

type tokenContextKey struct{}

// ContextWithToken attaches the caller's bearer token to a context so the
// upstream client can forward it.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext returns the bearer token carried by the context, if any.
func TokenFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(tokenContextKey{}).(string); ok {
		return v
	}
	return ""
}

// GetPlayerID returns the authenticated player's ID or empty string.
func GetPlayerID(c *gin.Context) string {
	if v, ok := c.Get("playerID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetPlayerEmail returns the authenticated player's email or empty string.
func GetPlayerEmail(c *gin.Context) string {
	if v, ok := c.Get("playerEmail"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
