package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthRequired is a Gin middleware that validates JWT from Authorization: Bearer <token>
func AuthRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing Authorization header",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid Authorization header format",
			})
			return
		}

		tokenStr := parts[1]

		claims, err := jwtManager.ParseAndValidate(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		// Store player info into Gin context for later handlers. The raw
		// token is kept as well so it can be forwarded to the upstream API.
		c.Set("playerID", claims.PlayerID)
		c.Set("playerEmail", claims.Email)
		c.Set("bearerToken", tokenStr)

		// Make the token reachable through the request context too, for
		// code below the HTTP layer (the upstream client).
		ctx := ContextWithToken(c.Request.Context(), tokenStr)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
