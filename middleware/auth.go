package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"payment-callback-service/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const CallerKey = "caller"

// AuthMiddleware parses the bearer token and stores the typed caller
// identity in the gin context. Authorization decisions stay in the
// services; this only authenticates.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims, err := parseToken(tokenStr, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		caller := models.Caller{}
		if sub, ok := claims["sub"].(string); ok {
			caller.UserID = sub
		}
		if isAdmin, ok := claims["isAdmin"].(bool); ok {
			caller.IsAdmin = isAdmin
		}

		c.Set(CallerKey, caller)
		c.Next()
	}
}

// GetCaller returns the authenticated caller set by AuthMiddleware.
func GetCaller(c *gin.Context) (models.Caller, bool) {
	if val, ok := c.Get(CallerKey); ok {
		if caller, ok := val.(models.Caller); ok {
			return caller, true
		}
	}
	return models.Caller{}, false
}

func parseToken(tokenStr string, secret []byte) (jwt.MapClaims, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("JWT secret not configured")
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
