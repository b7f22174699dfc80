package utils

import (
	"fmt"
	"time"

	"github.com/SscSPs/ohada_reporting_app/internal/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateAdminJWT signs an HS256 token carrying the admin role, accepted by
// middleware.AdminAuthMiddleware on the cache maintenance routes.
func GenerateAdminJWT(operator string, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("cannot sign admin token: empty secret")
	}
	if operator == "" {
		return "", fmt.Errorf("cannot sign admin token: empty operator")
	}
	now := time.Now()
	claims := middleware.AdminClaims{
		Role: middleware.AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   operator,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
