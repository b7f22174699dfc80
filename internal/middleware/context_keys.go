package middleware

import "github.com/gin-gonic/gin"

// operatorIDKey is the key used to store the authenticated operator in the Gin context.
const operatorIDKey = contextKey("operatorID")

const authMethodKey = "authMethod"

const (
	AuthMethodJWT      = "jwt"
	AuthMethodAdminKey = "api_key"
)

// GetOperatorIDFromContext retrieves the authenticated operator from the Gin context.
// It returns the operator and a boolean indicating if it was found.
func GetOperatorIDFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(operatorIDKey))
	if !exists {
		// check in the request context as well
		if v, ok := c.Request.Context().Value(operatorIDKey).(string); ok {
			return v, true
		}
		return "", false
	}

	operator, ok := val.(string)
	if !ok {
		return "", false
	}
	return operator, true
}
