package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pitchside/fieldbook-gateway/internal/pkg/request"
)

// RequestID ensures every request carries an X-Request-ID, generating one
// when the client did not send any. The id is echoed on the response and
// forwarded to the upstream so logs can be correlated end to end.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Request = c.Request.WithContext(request.ContextWithID(c.Request.Context(), rid))
		c.Next()
	}
}
