package middleware

import (
	"net/http"
	"strings"

	"fieldops-http-service/internal/domain/models"
	"fieldops-http-service/internal/domain/services"
	"fieldops-http-service/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

var jwtService services.InterfaceJWTService

// InitAuthMiddleware initializes the authentication middleware
func InitAuthMiddleware(cfg *config.Config, db *gorm.DB) {
	jwtService = services.NewJWTService(cfg, db)
}

// extractToken strips the "Bearer " prefix from the authorization header
func extractToken(authHeader string) string {
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// authenticate validates the token and hands the claims to the role check.
func authenticate(c *gin.Context) (jwt.MapClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    401,
			"message": "Authorization header is required",
			"data":    nil,
		})
		c.Abort()
		return nil, false
	}

	tokenString := extractToken(authHeader)
	token, err := jwtService.ValidateToken(tokenString)
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    401,
			"message": "Invalid or expired token",
			"data":    nil,
		})
		c.Abort()
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    401,
			"message": "Invalid token claims",
			"data":    nil,
		})
		c.Abort()
		return nil, false
	}

	return claims, true
}

// setIdentity stores the caller identity for the controllers.
func setIdentity(c *gin.Context, claims jwt.MapClaims, role string) {
	c.Set("userID", claims["user_id"])
	c.Set("username", claims["username"])
	c.Set("role", role)
	c.Set("claims", claims)
}

// AuthenticateAdmin requires the admin role
func AuthenticateAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c)
		if !ok {
			return
		}

		role, exists := claims["role"].(string)
		if !exists || role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "Insufficient permissions: requires admin role",
				"data":    nil,
			})
			c.Abort()
			return
		}

		setIdentity(c, claims, role)
		c.Next()
	}
}

// AuthenticateTechnician requires the technician role. Admins may also
// access technician endpoints.
func AuthenticateTechnician() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c)
		if !ok {
			return
		}

		role, exists := claims["role"].(string)
		if !exists || (role != models.RoleTechnician && role != models.RoleAdmin) {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "Insufficient permissions: requires technician role",
				"data":    nil,
			})
			c.Abort()
			return
		}

		setIdentity(c, claims, role)
		c.Next()
	}
}

// Authentication accepts any valid token regardless of role
func Authentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c)
		if !ok {
			return
		}

		role, _ := claims["role"].(string)
		setIdentity(c, claims, role)
		c.Next()
	}
}
