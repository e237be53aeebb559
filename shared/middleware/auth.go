package middleware

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/pavitra93/hotel-energy-tracker/shared/store"
	"github.com/pavitra93/hotel-energy-tracker/shared/utils"
)

// AuthMiddleware verifies the database JWT and hands its claims to the store.
// Which rows a caller may see is decided by Postgres row-level security, not here.
type AuthMiddleware struct {
	secret []byte
}

// NewAuthMiddleware creates a middleware verifying HS256 tokens signed with secret
func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

// RequireAuth rejects requests without a valid token and attaches the
// token claims to the request context
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			utils.UnauthorizedResponse(c, "Authorization token required")
			return
		}

		claims, err := am.parseToken(tokenString)
		if err != nil {
			logrus.WithError(err).Debug("Rejected bearer token")
			utils.UnauthorizedResponse(c, "Invalid token")
			return
		}

		claimsJSON, err := json.Marshal(claims)
		if err != nil {
			utils.UnauthorizedResponse(c, "Invalid token claims")
			return
		}

		c.Set("user_id", getClaimString(claims, "sub"))
		c.Set("role", getClaimString(claims, "role"))
		c.Request = c.Request.WithContext(store.ContextWithClaims(c.Request.Context(), string(claimsJSON)))

		c.Next()
	}
}

func (am *AuthMiddleware) parseToken(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return am.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	return claims, nil
}

// extractToken extracts the JWT token from the Authorization header
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return authHeader
}

// getClaimString safely extracts a string claim from JWT claims
func getClaimString(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}
