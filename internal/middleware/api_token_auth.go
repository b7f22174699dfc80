package middleware

import (
	"context"
	"crypto/subtle"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth accepts a static admin key in the x-api-key header as an
// alternative to a bearer token. Unknown or missing keys fall through to the
// next auth middleware.
func APIKeyAuth(adminKeys []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("x-api-key")
		if key == "" || len(adminKeys) == 0 {
			c.Next()
			return
		}

		for _, k := range adminKeys {
			if k != "" && subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
				operator := "api-key"
				c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), operatorIDKey, operator))
				c.Set(string(operatorIDKey), operator)
				c.Set(authMethodKey, AuthMethodAdminKey)
				break
			}
		}
		c.Next()
	}
}
