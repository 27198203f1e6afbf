package middleware

import (
	"fmt"
	"strings"

	"projectflow/model"
	"projectflow/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "userId"

// AccessTokenMiddleware accepts "Bearer <jwt>" signed with secret and puts
// the caller's user id in the context.
func AccessTokenMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Request.Header.Get("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "Authorization header is missing"})
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		claims := &model.AccessClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			msg := "invalid token"
			if err != nil {
				msg = err.Error()
			}
			c.AbortWithStatusJSON(401, gin.H{"error": "Token is expired or invalid: " + msg})
			return
		}
		if claims.UserID == 0 {
			c.AbortWithStatusJSON(401, gin.H{"error": "Invalid userId in token claims"})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// CurrentUser returns the principal set by AccessTokenMiddleware.
func CurrentUser(c *gin.Context) services.Principal {
	return services.Principal{UserID: c.MustGet(userIDKey).(uint)}
}
