package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mindcare/therapist-api/pkg/auth"
)

const (
	GinContextKeyClaims = "callerClaims"
)

func AuthMiddleware(jwtSvc *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(GinContextKeyClaims, claims)

		c.Next()
	}
}

func GetClaimsFromGinContext(c *gin.Context) (*auth.CustomClaims, bool) {
	value, ok := c.Get(GinContextKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*auth.CustomClaims)
	if !ok {
		return nil, false
	}
	return claims, true
}
